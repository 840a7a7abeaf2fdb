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

	"github.com/pkg/errors"
)

// VerifyError occures when a function violates the SSA form.
type VerifyError struct {
	Block  *BasicBlock
	Node   IrNode
	Reason string
}

func (self *VerifyError) Error() string {
	if self.Node == nil {
		return fmt.Sprintf("bb_%d: %s", self.Block.Id, self.Reason)
	} else {
		return fmt.Sprintf("bb_%d: %s: %s", self.Block.Id, self.Node, self.Reason)
	}
}

type _DefSite struct {
	bb *BasicBlock
	at int
}

type _Verifier struct {
	fn   *Func
	dt   DominatorTree
	live map[int]bool
	defs map[Reg]_DefSite
}

// Verify checks that fn is in SSA form: every register is defined exactly
// once, definitions dominate their uses, and Phi nodes name distinct real
// predecessors. Dominance is only checked for blocks reachable from the root.
func Verify(fn *Func) error {
	vv := &_Verifier{
		fn:   fn,
		dt:   BuildDominatorTree(fn),
		live: fn.Reachable(),
		defs: make(map[Reg]_DefSite),
	}

	/* run all the checks */
	if err := vv.verify(); err != nil {
		return errors.Wrapf(err, "verify %s", fn.Name)
	} else {
		return nil
	}
}

func (self *_Verifier) verify() error {
	for _, bb := range self.fn.Blocks {
		if bb.Term == nil {
			return &VerifyError{Block: bb, Reason: "block does not terminate"}
		}
	}

	/* collect definitions */
	for _, bb := range self.fn.Blocks {
		for _, p := range bb.Phi {
			if err := self.define(bb, p, -1, p.R); err != nil {
				return err
			}
		}

		/* instructions */
		for i, p := range bb.Ins {
			if d, ok := p.(IrDefinitions); ok {
				for _, r := range d.Definitions() {
					if err := self.define(bb, p, i, *r); err != nil {
						return err
					}
				}
			}
		}
	}

	/* check usages */
	for _, bb := range self.order() {
		for _, p := range bb.Phi {
			if err := self.verifyPhi(bb, p); err != nil {
				return err
			}
		}

		/* instructions */
		for i, p := range bb.Ins {
			if err := self.verifyUses(bb, p, i); err != nil {
				return err
			}
		}

		/* terminators */
		if err := self.verifyUses(bb, bb.Term, len(bb.Ins)); err != nil {
			return err
		}
	}
	return nil
}

// order lists the reachable blocks in reverse post order, so definitions are
// mostly met before their uses, followed by the unreachable ones.
func (self *_Verifier) order() []*BasicBlock {
	ret := self.fn.ReversePostOrder()
	for _, bb := range self.fn.Blocks {
		if !self.live[bb.Id] {
			ret = append(ret, bb)
		}
	}
	return ret
}

func (self *_Verifier) define(bb *BasicBlock, p IrNode, i int, r Reg) error {
	if !r.Valid() {
		return &VerifyError{Block: bb, Node: p, Reason: "defines an invalid register"}
	} else if d, ok := self.defs[r]; ok {
		return &VerifyError{Block: bb, Node: p, Reason: fmt.Sprintf("%s already defined in bb_%d", r, d.bb.Id)}
	} else {
		self.defs[r] = _DefSite{bb: bb, at: i}
		return nil
	}
}

func (self *_Verifier) verifyPhi(bb *BasicBlock, p *IrPhi) error {
	seen := make(map[*BasicBlock]bool, len(p.V))

	/* never more edges than predecessors */
	if len(p.V) > len(bb.Pred) {
		return &VerifyError{Block: bb, Node: p, Reason: "more incoming edges than predecessors"}
	}

	/* check every edge */
	for _, e := range p.V {
		if !bb.hasPred(e.B) {
			return &VerifyError{Block: bb, Node: p, Reason: fmt.Sprintf("bb_%d is not a predecessor", e.B.Id)}
		} else if seen[e.B] {
			return &VerifyError{Block: bb, Node: p, Reason: fmt.Sprintf("duplicated edge from bb_%d", e.B.Id)}
		} else if e.R.Class() != p.R.Class() {
			return &VerifyError{Block: bb, Node: p, Reason: fmt.Sprintf("%s has a different class", e.R)}
		}

		/* the value must be available at the end of the predecessor */
		if d, ok := self.defs[e.R]; !ok {
			return &VerifyError{Block: bb, Node: p, Reason: "use of undefined register: " + e.R.String()}
		} else if self.live[e.B.Id] && !self.dt.Dominates(d.bb, e.B) {
			return &VerifyError{Block: bb, Node: p, Reason: fmt.Sprintf("%s does not dominate the end of bb_%d", e.R, e.B.Id)}
		}

		/* mark as seen */
		seen[e.B] = true
	}
	return nil
}

func (self *_Verifier) verifyUses(bb *BasicBlock, p IrNode, i int) error {
	var ok bool
	var d _DefSite
	var u IrUsages

	/* not all instructions have operands */
	if u, ok = p.(IrUsages); !ok {
		return nil
	}

	/* check every operand */
	for _, r := range u.Usages() {
		if d, ok = self.defs[*r]; !ok {
			return &VerifyError{Block: bb, Node: p, Reason: "use of undefined register: " + r.String()}
		} else if !self.live[bb.Id] {
			continue
		} else if d.bb == bb && d.at >= i {
			return &VerifyError{Block: bb, Node: p, Reason: fmt.Sprintf("%s is used before its definition", r)}
		} else if d.bb != bb && !self.dt.Dominates(d.bb, bb) {
			return &VerifyError{Block: bb, Node: p, Reason: fmt.Sprintf("%s does not dominate its use", r)}
		}
	}
	return nil
}
