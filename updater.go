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

// Package ssaupdater rebuilds SSA form for one value on demand, after a
// transformation left several definitions of it in different blocks.
//
// The client seeds the definitions it knows about with AddAvailableValue, then
// asks for the value live at the end or in the middle of any block, or lets
// RewriteUse patch one use at a time. Phi nodes are only inserted where two
// different values meet, and no dominator tree is needed.
package ssaupdater

import (
	"github.com/cloudwego/ssaupdater/internal/opts"
	"github.com/cloudwego/ssaupdater/internal/stats"
	"github.com/cloudwego/ssaupdater/ir"
)

// Updater is not safe for concurrent use, and must not be re-entered from
// within the Editor it drives.
type Updater struct {
	ed    Editor
	opts  opts.Options
	work  _Worklist
	cache _AvailCache
	class ir.Class
	ready bool
	dirty bool
	phis  []*ir.IrPhi
	fresh []*ir.IrPhi
}

func NewUpdater(ed Editor, options ...Option) *Updater {
	ret := &Updater{
		ed:    ed,
		opts:  opts.GetDefaultOptions(),
		cache: newAvailCache(),
	}

	/* apply all the options */
	for _, fn := range options {
		fn(&ret.opts)
	}
	return ret
}

// Initialize starts a new session, the class of proto names every Phi node
// and undefined value the updater creates. Results of the previous session
// are discarded.
func (self *Updater) Initialize(proto ir.Reg) {
	if !proto.Valid() {
		usage("Initialize", "invalid prototype register")
	}

	/* reset the session */
	self.Reset()
	self.class = proto.Class()
	self.ready = true
}

// Reset discards the current session, queries are refused until the next
// Initialize.
func (self *Updater) Reset() {
	self.cache.reset()
	self.work.reset()
	self.phis = nil
	self.fresh = nil
	self.dirty = false
	self.ready = false
}

func (self *Updater) Class() ir.Class {
	return self.class
}

// HasValueForBlock reports whether bb was seeded by the client or already
// resolved by a query in this session.
func (self *Updater) HasValueForBlock(bb *ir.BasicBlock) bool {
	self.check("HasValueForBlock", bb)
	return self.cache.has(bb)
}

// AddAvailableValue declares that r is live at the end of bb.
func (self *Updater) AddAvailableValue(bb *ir.BasicBlock, r ir.Reg) {
	self.check("AddAvailableValue", bb)

	/* the register must be of the session class */
	if !r.Valid() {
		usage("AddAvailableValue", "invalid register")
	} else if r.Class() != self.class {
		usage("AddAvailableValue", "register "+r.String()+" is not of class "+self.class.String())
	}

	/* seed the cache */
	self.cache.seed(bb, r)
}

// ValueAtEndOf returns the value live at the exit of bb, inserting Phi nodes
// as needed.
func (self *Updater) ValueAtEndOf(bb *ir.BasicBlock) Value {
	self.check("ValueAtEndOf", bb)
	stats.Count(&stats.Queries)
	return self.finish(self.valueAtEndOf(bb))
}

// ValueInMiddleOf returns the value live at a use inside bb that comes before
// any local definition. It only differs from ValueAtEndOf for seeded blocks.
func (self *Updater) ValueInMiddleOf(bb *ir.BasicBlock) Value {
	self.check("ValueInMiddleOf", bb)
	stats.Count(&stats.Queries)
	return self.finish(self.valueInMiddleOf(bb))
}

// InsertedPhis returns the Phi nodes kept in this session that are still in
// the IR, or nil if tracking is off.
func (self *Updater) InsertedPhis() []*ir.IrPhi {
	if !self.opts.TrackInserted {
		return nil
	}

	/* some might have been folded since */
	ret := make([]*ir.IrPhi, 0, len(self.phis))
	for _, p := range self.phis {
		if !p.Erased() {
			ret = append(ret, p)
		}
	}
	return ret
}

func (self *Updater) check(op string, bb *ir.BasicBlock) {
	if !self.ready {
		usage(op, "updater is not initialized")
	} else if bb == nil {
		usage(op, "nil block")
	}
}

func (self *Updater) finish(v Value) Value {
	if n := self.work.mark(); n != 0 {
		panic(InvariantError{Block: 0, Reason: "worklist not drained after a query"})
	}

	/* no resolution is in flight anymore, fold if anything was elided */
	if self.dirty {
		v = self.fold(v)
		self.dirty = false
	}

	/* report what survived */
	self.report()
	return v
}

// fold erases the kept Phi nodes that became trivial after the placeholders
// they referred to were elided, until none is left. Returns what v became.
func (self *Updater) fold(v Value) Value {
	for changed := true; changed; {
		changed = false

		/* try every Phi node that is still there */
		for _, p := range self.phis {
			if p.Erased() {
				continue
			}

			/* still merging different values */
			r, ok := self.ed.ConstantValue(p)
			if !ok {
				continue
			}

			/* the result itself might be folded */
			if x, ok := v.Reg(); ok && x == p.R {
				v = Resolved(r)
			}

			/* replace it everywhere */
			self.elide(p.Block(), p, Resolved(r))
			changed = true
		}
	}
	return v
}

func (self *Updater) keep(phi *ir.IrPhi) {
	stats.Count(&stats.PhiKept)
	self.phis = append(self.phis, phi)
	self.fresh = append(self.fresh, phi)
}

// report hands the Phi nodes kept by the last query to the client buffer,
// folded ones never reach it.
func (self *Updater) report() {
	if self.opts.Inserted != nil {
		for _, p := range self.fresh {
			if !p.Erased() {
				*self.opts.Inserted = append(*self.opts.Inserted, p)
			}
		}
	}

	/* clear the slots */
	for i := range self.fresh {
		self.fresh[i] = nil
	}
	self.fresh = self.fresh[:0]
}
