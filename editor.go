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
	"github.com/cloudwego/ssaupdater/ir"
)

// Editor is the view of the IR the updater works through. The updater never
// touches blocks or instructions directly except through these operations.
type Editor interface {
	Predecessors(bb *ir.BasicBlock) []*ir.BasicBlock
	HasNoPredecessors(bb *ir.BasicBlock) bool

	// NewReg allocates a fresh register of class c.
	NewReg(c ir.Class) ir.Reg

	// InsertPhi creates an empty Phi node defining r at the head of bb.
	InsertPhi(bb *ir.BasicBlock, r ir.Reg) *ir.IrPhi
	ErasePhi(phi *ir.IrPhi)

	// InsertUndef defines r as undefined right before the instruction before,
	// or right before the terminator of bb if before is nil.
	InsertUndef(bb *ir.BasicBlock, before ir.IrNode, r ir.Reg)

	ReplaceAllUses(from ir.Reg, to ir.Reg)

	// ConstantValue reports the single value a Phi node is equivalent to, if
	// every incoming value is either that value or the Phi node itself.
	ConstantValue(phi *ir.IrPhi) (ir.Reg, bool)
}

var _ Editor = (*ir.Func)(nil)
