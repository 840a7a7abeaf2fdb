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

type BasicBlock struct {
	Id   int
	Phi  []*IrPhi
	Ins  []IrNode
	Pred []*BasicBlock
	Term IrTerminator
	fn   *Func
}

func (self *BasicBlock) Func() *Func {
	return self.fn
}

func (self *BasicBlock) Successors() []*BasicBlock {
	if self.Term == nil {
		return nil
	} else {
		return self.Term.Successors()
	}
}

func (self *BasicBlock) String() string {
	return fmt.Sprintf("bb_%d", self.Id)
}

func (self *BasicBlock) hasPred(bb *BasicBlock) bool {
	for _, p := range self.Pred {
		if p == bb {
			return true
		}
	}
	return false
}

func (self *BasicBlock) addPred(bb *BasicBlock) {
	if !self.hasPred(bb) {
		self.Pred = append(self.Pred, bb)
	}
}

func (self *BasicBlock) termBranch(to *BasicBlock) {
	to.addPred(self)
	self.Term = &IrSwitch{Ln: to}
}

func (self *BasicBlock) termCondition(v Reg, t *BasicBlock, f *BasicBlock) {
	t.addPred(self)
	f.addPred(self)
	self.Term = &IrSwitch{V: v, Ln: f, Br: map[int64]*BasicBlock{1: t}}
}

func (self *BasicBlock) termSwitch(v Reg, ln *BasicBlock, br map[int64]*BasicBlock) {
	sw := &IrSwitch{V: v, Ln: ln, Br: make(map[int64]*BasicBlock, len(br))}
	self.Term = sw

	/* add every branch of the switch instruction */
	for k, to := range br {
		sw.Br[k] = to
	}

	/* predecessors follow the successor order */
	for _, to := range sw.Successors() {
		to.addPred(self)
	}
}

func (self *BasicBlock) termReturn(rr []Reg) {
	self.Term = &IrReturn{R: append([]Reg(nil), rr...)}
}

func (self *BasicBlock) indexOf(ins IrNode) int {
	for i, p := range self.Ins {
		if p == ins {
			return i
		}
	}
	return -1
}

func (self *BasicBlock) insertBefore(ins IrNode, before IrNode) {
	var i int

	/* nil or the terminator means the end of the block */
	if before == nil || before == IrNode(self.Term) {
		self.Ins = append(self.Ins, ins)
		return
	}

	/* locate the instruction */
	if i = self.indexOf(before); i < 0 {
		panic(fmt.Sprintf("insertBefore: %s is not in bb_%d", before, self.Id))
	}

	/* shift the tail */
	self.Ins = append(self.Ins, nil)
	copy(self.Ins[i+1:], self.Ins[i:])
	self.Ins[i] = ins
}

func (self *BasicBlock) removePhi(phi *IrPhi) {
	for i, p := range self.Phi {
		if p == phi {
			copy(self.Phi[i:], self.Phi[i+1:])
			self.Phi[len(self.Phi)-1] = nil
			self.Phi = self.Phi[:len(self.Phi)-1]
			return
		}
	}
	panic(fmt.Sprintf("removePhi: %s is not in bb_%d", phi, self.Id))
}

func (self *BasicBlock) dump() string {
	pred := make([]string, 0, len(self.Pred))
	buf := []string{fmt.Sprintf("bb_%d:", self.Id)}

	/* predecessor list */
	for _, p := range self.Pred {
		pred = append(pred, p.String())
	}

	/* block header */
	if len(pred) != 0 {
		buf[0] = fmt.Sprintf("bb_%d:    # pred = {%s}", self.Id, strings.Join(pred, ", "))
	}

	/* Phi nodes */
	for _, p := range self.Phi {
		buf = append(buf, "    "+p.String())
	}

	/* instructions */
	for _, p := range self.Ins {
		buf = append(buf, "    "+p.String())
	}

	/* the terminator */
	if self.Term == nil {
		buf = append(buf, "    <unterminated>")
	} else {
		for _, ss := range strings.Split(self.Term.String(), "\n") {
			buf = append(buf, "    "+ss)
		}
	}
	return strings.Join(buf, "\n")
}
