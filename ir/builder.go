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
)

// Builder constructs a Func block by block. Predecessor lists are filled in
// the order the edges are created.
type Builder struct {
	fn *Func
}

func NewBuilder(name string) *Builder {
	return &Builder{fn: NewFunc(name)}
}

// Func returns the function under construction.
func (self *Builder) Func() *Func {
	return self.fn
}

func (self *Builder) Block() *BasicBlock {
	return self.fn.CreateBlock()
}

func (self *Builder) Const(bb *BasicBlock, c Class, v int64) Reg {
	r := self.fn.NewReg(c)
	bb.Ins = append(bb.Ins, &IrConstInt{R: r, V: v})
	return r
}

func (self *Builder) Binary(bb *BasicBlock, op IrBinaryOp, x Reg, y Reg) Reg {
	r := self.fn.NewReg(x.Class())
	bb.Ins = append(bb.Ins, &IrBinaryExpr{R: r, X: x, Y: y, Op: op})
	return r
}

func (self *Builder) Undef(bb *BasicBlock, c Class) Reg {
	r := self.fn.NewReg(c)
	bb.Ins = append(bb.Ins, &IrUndef{R: r})
	return r
}

// Phi adds a Phi node to bb, edges are given as (predecessor, value) pairs.
func (self *Builder) Phi(bb *BasicBlock, c Class, edges ...IrPhiEdge) Reg {
	r := self.fn.NewReg(c)
	p := self.fn.InsertPhi(bb, r)
	p.V = append(p.V, edges...)
	return r
}

func (self *Builder) Jump(from *BasicBlock, to *BasicBlock) {
	self.terminate(from)
	from.termBranch(to)
}

func (self *Builder) Branch(from *BasicBlock, cond Reg, t *BasicBlock, f *BasicBlock) {
	self.terminate(from)
	from.termCondition(cond, t, f)
}

func (self *Builder) Switch(from *BasicBlock, v Reg, ln *BasicBlock, br map[int64]*BasicBlock) {
	self.terminate(from)
	from.termSwitch(v, ln, br)
}

func (self *Builder) Return(from *BasicBlock, rr ...Reg) {
	self.terminate(from)
	from.termReturn(rr)
}

// Build checks that every block terminates and returns the function.
func (self *Builder) Build() *Func {
	for _, bb := range self.fn.Blocks {
		if bb.Term == nil {
			panic(fmt.Sprintf("basic block %d does not terminate", bb.Id))
		}
	}
	return self.fn
}

func (self *Builder) terminate(bb *BasicBlock) {
	if bb.fn != self.fn {
		panic(fmt.Sprintf("basic block %d belongs to another function", bb.Id))
	} else if bb.Term != nil {
		panic(fmt.Sprintf("basic block %d already terminated", bb.Id))
	}
}
