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
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/davecgh/go-spew/spew"

	"github.com/cloudwego/ssaupdater/ir"
)

// randomProgram builds a function of n blocks, all reachable from the root.
// The root defines old, other blocks might use old and then redefine it, and
// blocks that merge control flow might carry a Phi node of old.
func randomProgram(seed int64, n int) (*ir.Func, ir.Reg, map[*ir.BasicBlock]ir.Reg) {
	fk := gofakeit.New(seed)
	b := ir.NewBuilder(fmt.Sprintf("random_%d", seed))
	defs := make(map[*ir.BasicBlock]ir.Reg)
	succ := make([][]*ir.BasicBlock, n)
	blocks := make([]*ir.BasicBlock, n)

	/* create all the blocks */
	for i := range blocks {
		blocks[i] = b.Block()
	}

	/* the original definition */
	old := b.Const(blocks[0], ir.ClassInt, 0)

	/* uses come before the redefinition within a block */
	for i, bb := range blocks[1:] {
		if fk.Bool() {
			b.Binary(bb, ir.IrOpAdd, old, old)
		}
		if fk.Number(0, 2) == 0 {
			defs[bb] = b.Const(bb, ir.ClassInt, int64(i+1))
		}
	}

	/* a forward edge keeps every block reachable */
	for i := 1; i < n; i++ {
		j := fk.IntRange(0, i-1)
		succ[j] = append(succ[j], blocks[i])
	}

	/* random extra edges, never into the root */
	for i := 0; i < n; i++ {
		from := fk.IntRange(0, n-1)
		succ[from] = append(succ[from], blocks[fk.IntRange(1, n-1)])
	}

	/* terminate every block */
	for i, bb := range blocks {
		switch len(succ[i]) {
		case 0:
			if _, ok := defs[bb]; ok {
				b.Return(bb)
			} else {
				b.Return(bb, old)
			}
		case 1:
			b.Jump(bb, succ[i][0])
		default:
			br := make(map[int64]*ir.BasicBlock, len(succ[i])-1)
			for k, to := range succ[i][1:] {
				br[int64(k)] = to
			}
			b.Switch(bb, b.Const(bb, ir.ClassInt, int64(i)), succ[i][0], br)
		}
	}

	/* Phi nodes need the final predecessor lists */
	for _, bb := range blocks[1:] {
		if len(bb.Pred) >= 2 && fk.Bool() {
			edges := make([]ir.IrPhiEdge, 0, len(bb.Pred))
			for _, p := range bb.Pred {
				edges = append(edges, ir.IrPhiEdge{B: p, R: old})
			}
			b.Phi(bb, ir.ClassInt, edges...)
		}
	}
	return b.Build(), old, defs
}

func TestRewriteUse_RandomPrograms(t *testing.T) {
	c := spew.NewDefaultConfig()
	c.DisablePointerAddresses = true

	/* every seed is a different control flow graph */
	for seed := int64(1); seed <= 64; seed++ {
		fn, old, defs := randomProgram(seed, 3+int(seed%17))
		u := NewUpdater(fn)
		u.Initialize(old)
		u.AddAvailableValue(fn.Root, old)

		/* seed every redefinition */
		for bb, r := range defs {
			u.AddAvailableValue(bb, r)
		}

		/* patch every use */
		for _, use := range fn.UsesOf(old) {
			u.RewriteUse(use)
		}

		/* the result must be in SSA form again */
		if err := ir.Verify(fn); err != nil {
			t.Fatalf("seed %d: %v\n%s\ninserted: %s", seed, err, fn, c.Sdump(u.InsertedPhis()))
		}
	}
}
