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
	"github.com/cloudwego/ssaupdater/internal/stats"
	"github.com/cloudwego/ssaupdater/ir"
)

// RewriteUse patches one use of the tracked value with the definition that
// reaches it. Phi operands observe the value at the end of the predecessor
// they flow in from, any other operand the value in the middle of its block.
// Undef is never written into the IR, an undefined instruction is inserted
// instead, at the end of the predecessor for Phi operands, or right before
// the using instruction otherwise.
func (self *Updater) RewriteUse(u ir.Use) ir.Reg {
	var r ir.Reg
	var v Value
	var ok bool

	/* Phi operands are resolved on the incoming edge */
	if self.check("RewriteUse", u.Block); u.IsPhi() {
		if u.Pred == nil {
			usage("RewriteUse", "Phi operand without a predecessor")
		}

		/* value at the end of the predecessor */
		stats.Count(&stats.Queries)
		v = self.finish(self.valueAtEndOf(u.Pred))

		/* undefined on this edge */
		if r, ok = v.Reg(); !ok {
			r = self.materialize(u.Pred, nil)
		}
	} else {
		stats.Count(&stats.Queries)
		v = self.finish(self.valueInMiddleOf(u.Block))

		/* undefined at this use */
		if r, ok = v.Reg(); !ok {
			r = self.materialize(u.Block, u.Node)
		}
	}

	/* patch the operand */
	u.Set(r)
	return r
}
