/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssaupdater

import (
	"github.com/containerd/log"

	"github.com/cloudwego/ssaupdater/internal/stats"
	"github.com/cloudwego/ssaupdater/ir"
)

func (self *Updater) valueAtEndOf(bb *ir.BasicBlock) Value {
	e := self.cache.get(bb)

	/* already known, or being resolved further up in the recursion */
	switch e.kind {
	case _E_value, _E_undef:
		stats.Count(&stats.CacheHit)
		return e.value()
	case _E_busy:
		stats.Count(&stats.CacheHit)
		return self.cyclePhi(bb, e)
	}

	/* claim the block, so that cycles coming back here can be detected */
	stats.Count(&stats.CacheMiss)
	self.cache.set(bb, _Entry{kind: _E_busy})

	/* no predecessors, this must be the entry or an unreachable block */
	if self.ed.HasNoPredecessors(bb) {
		self.cache.set(bb, entryOf(Undef))
		return Undef
	}

	/* resolve every predecessor */
	base := self.work.mark()
	val, singular := self.resolvePreds(bb)

	/* a placeholder exists if a cycle came back to this block */
	phi := self.cache.get(bb).phi

	/* all the predecessors agree, no Phi node is needed */
	if singular && !isPhiOf(phi, val) {
		if self.work.trim(base); phi != nil {
			self.elide(bb, phi, val)
		}
		self.cache.set(bb, entryOf(val))
		return val
	}

	/* otherwise merge them */
	return self.mergeAtEnd(bb, phi, base)
}

func (self *Updater) valueInMiddleOf(bb *ir.BasicBlock) Value {
	if !self.cache.seeded(bb) {
		return self.valueAtEndOf(bb)
	}

	/* no predecessors, nothing flows in */
	if self.ed.HasNoPredecessors(bb) {
		return Undef
	}

	/* resolve every predecessor */
	base := self.work.mark()
	val, singular := self.resolvePreds(bb)

	/* all the predecessors agree */
	if singular {
		self.work.trim(base)
		return val
	}

	/* a fresh Phi node, it is never cached, undefined edges are wired last */
	var undef []int
	phi := self.newPhi(bb)

	/* real values first, undefined slots stay empty for now */
	for i, p := range self.work.frame(base) {
		if r, ok := p.v.Reg(); ok {
			phi.AddIncoming(r, p.bb)
		} else {
			phi.AddIncoming(ir.Rz, p.bb)
			undef = append(undef, i)
		}
	}

	/* drop the frame */
	self.work.trim(base)

	/* every undefined edge gets a distinct value, so only a fully defined Phi can collapse */
	if len(undef) == 0 {
		if r, ok := self.ed.ConstantValue(phi); ok {
			self.ed.ErasePhi(phi)
			stats.Count(&stats.PhiElided)
			return Resolved(r)
		}
	}

	/* the Phi node stays, materialize the undefined values */
	for _, i := range undef {
		e := &phi.V[i]
		e.R = self.materialize(e.B, nil)
	}

	/* keep the Phi node */
	self.keep(phi)
	log.L.WithFields(log.Fields{"block": bb.String(), "phi": phi.String()}).Debug("ssaupdater: inserted phi in the middle of block")
	return Resolved(phi.R)
}

// resolvePreds pushes one frame of (predecessor, value) pairs onto the
// worklist, and reports whether all the values are the same.
func (self *Updater) resolvePreds(bb *ir.BasicBlock) (Value, bool) {
	var val Value
	var singular = true

	/* the first value is the candidate, any mismatch clears it */
	for i, p := range self.ed.Predecessors(bb) {
		v := self.valueAtEndOf(p)
		self.work.push(p, v)

		/* compute the singular value */
		if i == 0 {
			val = v
		} else if v != val {
			singular = false
		}
	}
	return val, singular
}

func (self *Updater) mergeAtEnd(bb *ir.BasicBlock, phi *ir.IrPhi, base int) Value {
	var n int
	var cyclic = phi != nil

	/* reuse the placeholder if any */
	if !cyclic {
		phi = self.newPhi(bb)
		self.cache.set(bb, _Entry{kind: _E_busy, phi: phi})
	}

	/* fill in the predecessors, undefined edges are left out */
	for _, p := range self.work.frame(base) {
		if r, ok := p.v.Reg(); ok {
			phi.AddIncoming(r, p.bb)
			n++
		}
	}

	/* drop the frame */
	self.work.trim(base)

	/* nothing is defined on any path */
	if n == 0 {
		if cyclic {
			self.invariant(bb, "cycle with no incoming value")
			self.elide(bb, phi, Undef)
		} else {
			self.ed.ErasePhi(phi)
			stats.Count(&stats.PhiElided)
		}
		self.cache.set(bb, entryOf(Undef))
		return Undef
	}

	/* a Phi of itself and one other value */
	if r, ok := self.ed.ConstantValue(phi); ok {
		val := Resolved(r)
		self.elide(bb, phi, val)
		self.cache.set(bb, entryOf(val))
		return val
	}

	/* keep the Phi node, including one that only refers to itself */
	val := Resolved(phi.R)
	self.keep(phi)
	self.cache.set(bb, entryOf(val))

	/* nothing but the loop itself defines it */
	if isSelfOnly(phi) {
		log.L.WithFields(log.Fields{"block": bb.String(), "phi": phi.String()}).Debug("ssaupdater: kept self-referential phi")
	} else {
		log.L.WithFields(log.Fields{"block": bb.String(), "phi": phi.String()}).Debug("ssaupdater: inserted phi")
	}
	return val
}

// cyclePhi returns the placeholder of a block that is being resolved further
// up in the recursion, creating it on the first visit. Its edges are filled
// in by the resolution that claimed the block.
func (self *Updater) cyclePhi(bb *ir.BasicBlock, e _Entry) Value {
	if e.phi == nil {
		e.phi = self.newPhi(bb)
		self.cache.set(bb, e)
	}
	return Resolved(e.phi.R)
}

func (self *Updater) newPhi(bb *ir.BasicBlock) *ir.IrPhi {
	stats.Count(&stats.PhiCreated)
	return self.ed.InsertPhi(bb, self.ed.NewReg(self.class))
}

// elide erases a Phi node that might already be in use, and redirects every
// use of it to val, in the IR, in the cache, and in the pending frames.
func (self *Updater) elide(bb *ir.BasicBlock, phi *ir.IrPhi, val Value) {
	r, ok := val.Reg()

	/* uses of the placeholder still need a definition */
	if !ok {
		r = self.ed.NewReg(self.class)
		self.ed.InsertUndef(bb, firstIns(bb), r)
		stats.Count(&stats.UndefCount)
	}

	/* redirect the uses */
	self.ed.ReplaceAllUses(phi.R, r)
	self.cache.replace(phi.R, r)
	self.work.replace(phi.R, r)

	/* remove the Phi node, kept ones might have become trivial */
	self.ed.ErasePhi(phi)
	self.dirty = true
	stats.Count(&stats.PhiElided)
	log.L.WithFields(log.Fields{"block": bb.String(), "phi": phi.R.String(), "value": r.String()}).Debug("ssaupdater: elided phi")
}

// materialize defines a new undefined register in bb, right before the
// instruction before, or before the terminator if before is nil.
func (self *Updater) materialize(bb *ir.BasicBlock, before ir.IrNode) ir.Reg {
	r := self.ed.NewReg(self.class)
	self.ed.InsertUndef(bb, before, r)
	stats.Count(&stats.UndefCount)
	log.L.WithFields(log.Fields{"block": bb.String(), "reg": r.String()}).Debug("ssaupdater: materialized undef")
	return r
}

func (self *Updater) invariant(bb *ir.BasicBlock, reason string) {
	err := InvariantError{
		Block:  bb.Id,
		Reason: reason,
	}

	/* fatal in debug mode only */
	if self.opts.Debug {
		panic(err)
	} else {
		log.L.WithError(err).Warn("ssaupdater: continuing after an invariant violation")
	}
}

func isPhiOf(phi *ir.IrPhi, v Value) bool {
	if phi == nil {
		return false
	} else if r, ok := v.Reg(); !ok {
		return false
	} else {
		return r == phi.R
	}
}

func isSelfOnly(phi *ir.IrPhi) bool {
	for _, e := range phi.V {
		if e.R != phi.R {
			return false
		}
	}
	return true
}

func firstIns(bb *ir.BasicBlock) ir.IrNode {
	if len(bb.Ins) == 0 {
		return nil
	} else {
		return bb.Ins[0]
	}
}
