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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudwego/ssaupdater/ir"
)

func TestRewriteUse_PhiOperands(t *testing.T) {
	b := ir.NewBuilder("phi_operands")
	entry := b.Block()
	bb1 := b.Block()
	bb2 := b.Block()
	bb3 := b.Block()
	exit := b.Block()

	/* three arms, the last one defines nothing */
	old := b.Const(entry, ir.ClassInt, 0)
	b.Switch(entry, old, bb3, map[int64]*ir.BasicBlock{0: bb1, 1: bb2})
	x := b.Const(bb1, ir.ClassInt, 1)
	y := b.Const(bb2, ir.ClassInt, 2)
	b.Jump(bb1, exit)
	b.Jump(bb2, exit)
	b.Jump(bb3, exit)

	/* an existing Phi node still refers to old on every edge */
	q := b.Phi(exit, ir.ClassInt,
		ir.IrPhiEdge{B: bb1, R: old},
		ir.IrPhiEdge{B: bb2, R: old},
		ir.IrPhiEdge{B: bb3, R: old},
	)
	b.Return(exit, q)
	fn := b.Build()

	/* the switch is not part of the tracked value */
	u := NewUpdater(fn)
	u.Initialize(old)
	u.AddAvailableValue(bb1, x)
	u.AddAvailableValue(bb2, y)
	for _, use := range fn.UsesOf(old) {
		if use.IsPhi() {
			u.RewriteUse(use)
		}
	}

	/* the operand from bb_4 is undefined, it must not leak as a sentinel */
	phi := exit.Phi[0]
	require.Equal(t, x, phi.V[0].R)
	require.Equal(t, y, phi.V[1].R)
	require.Len(t, bb3.Ins, 1)
	require.Equal(t, &ir.IrUndef{R: phi.V[2].R}, bb3.Ins[0])
	require.Len(t, exit.Phi, 1)
	require.NoError(t, ir.Verify(fn))
}

func TestRewriteUse_UndefBeforeUse(t *testing.T) {
	b := ir.NewBuilder("undef_use")
	entry := b.Block()
	next := b.Block()

	/* nothing defines the tracked value */
	old := b.Const(entry, ir.ClassInt, 0)
	b.Jump(entry, next)
	sum := b.Binary(next, ir.IrOpAdd, old, old)
	b.Return(next, sum)
	fn := b.Build()

	/* both operands get their own undefined value */
	u := NewUpdater(fn)
	u.Initialize(old)
	for _, use := range fn.UsesOf(old) {
		r := u.RewriteUse(use)
		require.NotEqual(t, old, r)
	}

	/* right before the addition */
	require.Len(t, next.Ins, 3)
	add := next.Ins[2].(*ir.IrBinaryExpr)
	require.Equal(t, &ir.IrUndef{R: add.X}, next.Ins[0])
	require.Equal(t, &ir.IrUndef{R: add.Y}, next.Ins[1])
	require.Empty(t, next.Phi)
	require.NoError(t, ir.Verify(fn))
}

func TestRewriteUse_Terminator(t *testing.T) {
	d := newDiamond()
	u := NewUpdater(d.fn)
	u.Initialize(d.old)

	/* undefined everywhere, the value goes right before the return */
	uses := usesIn(d.fn, d.exit, d.old)
	require.Len(t, uses, 1)
	r := u.RewriteUse(uses[0])
	require.Equal(t, &ir.IrUndef{R: r}, d.exit.Ins[len(d.exit.Ins)-1])
	require.Equal(t, []ir.Reg{r}, d.exit.Term.(*ir.IrReturn).R)
	require.NoError(t, ir.Verify(d.fn))
}

func TestRewriteUse_Errors(t *testing.T) {
	d := newDiamond()
	phi := d.fn.InsertPhi(d.exit, d.fn.NewReg(ir.ClassInt))
	u := NewUpdater(d.fn)

	/* not initialized */
	require.Panics(t, func() { u.RewriteUse(usesIn(d.fn, d.exit, d.old)[0]) })

	/* a Phi operand must name its predecessor */
	u.Initialize(d.old)
	require.PanicsWithValue(t, UsageError{Op: "RewriteUse", Reason: "Phi operand without a predecessor"}, func() {
		u.RewriteUse(ir.Use{Block: d.exit, Node: phi})
	})
}
