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
	"sort"
	"strings"
)

type IrNode interface {
	fmt.Stringer
	irnode()
}

func (*IrPhi) irnode()        {}
func (*IrUndef) irnode()      {}
func (*IrConstInt) irnode()   {}
func (*IrBinaryExpr) irnode() {}
func (*IrSwitch) irnode()     {}
func (*IrReturn) irnode()     {}

type IrUsages interface {
	IrNode
	Usages() []*Reg
}

type IrDefinitions interface {
	IrNode
	Definitions() []*Reg
}

type IrPhiEdge struct {
	B *BasicBlock
	R Reg
}

// IrPhi merges the values flowing in from the predecessors of its block.
// Edges are kept in insertion order.
type IrPhi struct {
	R  Reg
	V  []IrPhiEdge
	bb *BasicBlock
}

func (self *IrPhi) String() string {
	ret := make([]string, 0, len(self.V))
	for _, e := range self.V {
		ret = append(ret, fmt.Sprintf("bb_%d: %s", e.B.Id, e.R))
	}
	return fmt.Sprintf("%s = φ(%s)", self.R, strings.Join(ret, ", "))
}

func (self *IrPhi) Usages() []*Reg {
	r := make([]*Reg, 0, len(self.V))
	for i := range self.V {
		r = append(r, &self.V[i].R)
	}
	return r
}

func (self *IrPhi) Definitions() []*Reg {
	return []*Reg{&self.R}
}

// Block returns the block holding this Phi node, nil once it has been erased.
func (self *IrPhi) Block() *BasicBlock {
	return self.bb
}

func (self *IrPhi) Erased() bool {
	return self.bb == nil
}

func (self *IrPhi) AddIncoming(r Reg, bb *BasicBlock) {
	self.V = append(self.V, IrPhiEdge{B: bb, R: r})
}

// Incoming returns the value flowing in from bb.
func (self *IrPhi) Incoming(bb *BasicBlock) (Reg, bool) {
	for _, e := range self.V {
		if e.B == bb {
			return e.R, true
		}
	}
	return Rz, false
}

// ConstantValue reports whether the Phi node always yields one value, that is
// every incoming value is either that value or the Phi itself. A Phi that only
// refers to itself sits in a dead loop and is never constant.
func (self *IrPhi) ConstantValue() (Reg, bool) {
	w := Rz

	/* find the only value that is not the Phi itself */
	for _, e := range self.V {
		if e.R == self.R || e.R == w {
			continue
		}
		if w != Rz {
			return Rz, false
		}
		w = e.R
	}

	/* self-references only */
	if w == Rz {
		return Rz, false
	} else {
		return w, true
	}
}

// IrUndef defines a register with no particular value.
type IrUndef struct {
	R Reg
}

func (self *IrUndef) String() string {
	return fmt.Sprintf("%s = undef", self.R)
}

func (self *IrUndef) Definitions() []*Reg {
	return []*Reg{&self.R}
}

type IrConstInt struct {
	R Reg
	V int64
}

func (self *IrConstInt) String() string {
	return fmt.Sprintf("%s = const.i64 %d", self.R, self.V)
}

func (self *IrConstInt) Definitions() []*Reg {
	return []*Reg{&self.R}
}

type IrBinaryOp uint8

const (
	IrOpAdd IrBinaryOp = iota
	IrOpSub
	IrOpMul
	IrCmpEq
	IrCmpLt
)

func (self IrBinaryOp) String() string {
	switch self {
	case IrOpAdd:
		return "+"
	case IrOpSub:
		return "-"
	case IrOpMul:
		return "*"
	case IrCmpEq:
		return "=="
	case IrCmpLt:
		return "<"
	default:
		panic("unreachable")
	}
}

type IrBinaryExpr struct {
	R  Reg
	X  Reg
	Y  Reg
	Op IrBinaryOp
}

func (self *IrBinaryExpr) String() string {
	return fmt.Sprintf("%s = %s %s %s", self.R, self.X, self.Op, self.Y)
}

func (self *IrBinaryExpr) Usages() []*Reg {
	return []*Reg{&self.X, &self.Y}
}

func (self *IrBinaryExpr) Definitions() []*Reg {
	return []*Reg{&self.R}
}

type IrTerminator interface {
	IrNode
	Successors() []*BasicBlock
	irterminator()
}

func (*IrSwitch) irterminator() {}
func (*IrReturn) irterminator() {}

// IrSwitch transfers control to Br[V] if present, or to Ln otherwise. A switch
// without any case is an unconditional jump.
type IrSwitch struct {
	V  Reg
	Ln *BasicBlock
	Br map[int64]*BasicBlock
}

func (self *IrSwitch) keys() []int64 {
	ret := make([]int64, 0, len(self.Br))
	for k := range self.Br {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i int, j int) bool { return ret[i] < ret[j] })
	return ret
}

func (self *IrSwitch) String() string {
	nb := len(self.Br)
	ret := make([]string, 0, nb+1)

	/* no branches */
	if nb == 0 {
		return fmt.Sprintf("goto bb_%d", self.Ln.Id)
	}

	/* add each case */
	for _, k := range self.keys() {
		ret = append(ret, fmt.Sprintf("  %d => bb_%d,", k, self.Br[k].Id))
	}

	/* default branch */
	ret = append(ret, fmt.Sprintf("  _ => bb_%d,", self.Ln.Id))
	return fmt.Sprintf("switch %s {\n%s\n}", self.V, strings.Join(ret, "\n"))
}

func (self *IrSwitch) Usages() []*Reg {
	if len(self.Br) == 0 {
		return nil
	} else {
		return []*Reg{&self.V}
	}
}

// Successors returns the distinct targets, cases in key order first, then the
// default target.
func (self *IrSwitch) Successors() []*BasicBlock {
	ret := make([]*BasicBlock, 0, len(self.Br)+1)
	vis := make(map[*BasicBlock]struct{}, len(self.Br)+1)

	/* add every target once */
	add := func(bb *BasicBlock) {
		if _, ok := vis[bb]; !ok {
			vis[bb] = struct{}{}
			ret = append(ret, bb)
		}
	}

	/* cases, then the default */
	for _, k := range self.keys() {
		add(self.Br[k])
	}

	/* the default target */
	add(self.Ln)
	return ret
}

type IrReturn struct {
	R []Reg
}

func (self *IrReturn) String() string {
	ret := make([]string, 0, len(self.R))
	for _, r := range self.R {
		ret = append(ret, r.String())
	}
	return fmt.Sprintf("ret {%s}", strings.Join(ret, ", "))
}

func (self *IrReturn) Usages() []*Reg {
	r := make([]*Reg, len(self.R))
	for i := range self.R {
		r[i] = &self.R[i]
	}
	return r
}

func (self *IrReturn) Successors() []*BasicBlock {
	return nil
}
