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

package ir

import (
	"fmt"
	"strings"
)

// Func owns the blocks of one function. Blocks are never removed, so a block
// pointer and its Id stay valid for the lifetime of the function.
type Func struct {
	Name   string
	Root   *BasicBlock
	Blocks []*BasicBlock
	nreg   int
}

func NewFunc(name string) *Func {
	return &Func{Name: name}
}

// CreateBlock appends a new empty block, the first one becomes the root.
func (self *Func) CreateBlock() *BasicBlock {
	bb := &BasicBlock{
		Id: len(self.Blocks) + 1,
		fn: self,
	}

	/* the first block is the entry */
	if self.Root == nil {
		self.Root = bb
	}

	/* add to block list */
	self.Blocks = append(self.Blocks, bb)
	return bb
}

// Block returns the block with the given Id, or nil.
func (self *Func) Block(id int) *BasicBlock {
	if id <= 0 || id > len(self.Blocks) {
		return nil
	} else {
		return self.Blocks[id-1]
	}
}

func (self *Func) MaxBlock() int {
	return len(self.Blocks)
}

func (self *Func) check(bb *BasicBlock) {
	if bb == nil || bb.fn != self {
		panic(fmt.Sprintf("%s: block %v does not belong to this function", self.Name, bb))
	}
}

func (self *Func) NewReg(c Class) Reg {
	self.nreg++
	return mkreg(c, self.nreg)
}

func (self *Func) Predecessors(bb *BasicBlock) []*BasicBlock {
	self.check(bb)
	return bb.Pred
}

func (self *Func) HasNoPredecessors(bb *BasicBlock) bool {
	self.check(bb)
	return len(bb.Pred) == 0
}

// InsertPhi creates an empty Phi node defining r at the head of bb.
func (self *Func) InsertPhi(bb *BasicBlock, r Reg) *IrPhi {
	self.check(bb)
	phi := &IrPhi{R: r, bb: bb}
	bb.Phi = append(bb.Phi, phi)
	return phi
}

// ErasePhi removes phi from its block. Uses of its register are left alone.
func (self *Func) ErasePhi(phi *IrPhi) {
	if phi.bb == nil {
		panic("ErasePhi: Phi node already erased: " + phi.String())
	}

	/* unlink and invalidate */
	self.check(phi.bb)
	phi.bb.removePhi(phi)
	phi.bb = nil
}

// InsertUndef defines r as undefined right before the instruction before, or
// right before the terminator of bb if before is nil.
func (self *Func) InsertUndef(bb *BasicBlock, before IrNode, r Reg) {
	self.check(bb)
	bb.insertBefore(&IrUndef{R: r}, before)
}

func (self *Func) ReplaceAllUses(from Reg, to Reg) {
	for _, bb := range self.Blocks {
		for _, p := range bb.Phi {
			replaceRegs(p.Usages(), from, to)
		}

		/* instructions */
		for _, p := range bb.Ins {
			if u, ok := p.(IrUsages); ok {
				replaceRegs(u.Usages(), from, to)
			}
		}

		/* terminators */
		if u, ok := bb.Term.(IrUsages); ok {
			replaceRegs(u.Usages(), from, to)
		}
	}
}

func (self *Func) ConstantValue(phi *IrPhi) (Reg, bool) {
	return phi.ConstantValue()
}

// DefOf finds the instruction defining r.
func (self *Func) DefOf(r Reg) (IrNode, *BasicBlock, bool) {
	for _, bb := range self.Blocks {
		for _, p := range bb.Phi {
			if p.R == r {
				return p, bb, true
			}
		}

		/* instructions */
		for _, p := range bb.Ins {
			if d, ok := p.(IrDefinitions); ok && definesReg(d, r) {
				return p, bb, true
			}
		}
	}
	return nil, nil, false
}

// UsesOf lists every operand referring to r, in block order.
func (self *Func) UsesOf(r Reg) []Use {
	var ret []Use
	for _, bb := range self.Blocks {
		for _, p := range bb.Phi {
			for i, e := range p.V {
				if e.R == r {
					ret = append(ret, Use{Block: bb, Node: p, Pred: e.B, idx: i})
				}
			}
		}

		/* instructions */
		for _, p := range bb.Ins {
			ret = appendUses(ret, bb, p, r)
		}

		/* terminators */
		if bb.Term != nil {
			ret = appendUses(ret, bb, bb.Term, r)
		}
	}
	return ret
}

func (self *Func) String() string {
	buf := make([]string, 0, len(self.Blocks))
	for _, bb := range self.Blocks {
		buf = append(buf, bb.dump())
	}
	return fmt.Sprintf("func %s {\n%s\n}", self.Name, strings.Join(buf, "\n"))
}

func definesReg(d IrDefinitions, r Reg) bool {
	for _, v := range d.Definitions() {
		if *v == r {
			return true
		}
	}
	return false
}

func replaceRegs(rr []*Reg, from Reg, to Reg) {
	for _, r := range rr {
		if *r == from {
			*r = to
		}
	}
}

func appendUses(buf []Use, bb *BasicBlock, p IrNode, r Reg) []Use {
	if u, ok := p.(IrUsages); ok {
		for _, v := range u.Usages() {
			if *v == r {
				buf = append(buf, Use{Block: bb, Node: p, ref: v})
			}
		}
	}
	return buf
}
