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

// Use is one operand of one instruction. For Phi operands Pred is the
// predecessor the value flows in from.
type Use struct {
	Block *BasicBlock
	Node  IrNode
	Pred  *BasicBlock
	ref   *Reg
	idx   int
}

func (self Use) IsPhi() bool {
	_, ok := self.Node.(*IrPhi)
	return ok
}

func (self Use) Get() Reg {
	if p, ok := self.Node.(*IrPhi); ok {
		return p.V[self.idx].R
	} else {
		return *self.ref
	}
}

func (self Use) Set(r Reg) {
	if p, ok := self.Node.(*IrPhi); ok {
		p.V[self.idx].R = r
	} else {
		*self.ref = r
	}
}

func (self Use) String() string {
	if self.Pred != nil {
		return fmt.Sprintf("%s in bb_%d (from bb_%d): %s", self.Get(), self.Block.Id, self.Pred.Id, self.Node)
	} else {
		return fmt.Sprintf("%s in bb_%d: %s", self.Get(), self.Block.Id, self.Node)
	}
}
