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
	"testing"

	"github.com/stretchr/testify/require"
)

type diamond struct {
	fn    *Func
	entry *BasicBlock
	left  *BasicBlock
	right *BasicBlock
	exit  *BasicBlock
	x     Reg
	y     Reg
	p     Reg
}

func newDiamond() *diamond {
	d := new(diamond)
	b := NewBuilder("diamond")

	/* bb_1 .. bb_4 */
	d.entry = b.Block()
	d.left = b.Block()
	d.right = b.Block()
	d.exit = b.Block()

	/* entry branches to both arms */
	c := b.Const(d.entry, ClassInt, 1)
	b.Branch(d.entry, c, d.left, d.right)

	/* each arm defines its own value */
	d.x = b.Const(d.left, ClassInt, 10)
	d.y = b.Const(d.right, ClassInt, 20)
	b.Jump(d.left, d.exit)
	b.Jump(d.right, d.exit)

	/* merge them */
	d.p = b.Phi(d.exit, ClassInt, IrPhiEdge{B: d.left, R: d.x}, IrPhiEdge{B: d.right, R: d.y})
	b.Return(d.exit, d.p)
	d.fn = b.Build()
	return d
}

func TestReg_Encoding(t *testing.T) {
	r := mkreg(ClassPtr, 42)
	require.True(t, r.Valid())
	require.Equal(t, ClassPtr, r.Class())
	require.Equal(t, 42, r.Index())
	require.Equal(t, "%p42", r.String())
	require.Equal(t, "%r3", mkreg(ClassInt, 3).String())
	require.Equal(t, "%f7", mkreg(ClassFloat, 7).String())
	require.Equal(t, "%_", Rz.String())
	require.False(t, Rz.Valid())
	require.Panics(t, func() { mkreg(ClassInt, 0) })
}

func TestBuilder_Diamond(t *testing.T) {
	d := newDiamond()
	require.Equal(t, d.entry, d.fn.Root)
	require.Equal(t, []*BasicBlock{d.left, d.right}, d.entry.Successors())
	require.Equal(t, []*BasicBlock{d.entry}, d.left.Pred)
	require.Equal(t, []*BasicBlock{d.left, d.right}, d.exit.Pred)
	require.Equal(t, d.right, d.fn.Block(3))
	require.Nil(t, d.fn.Block(5))
	require.Equal(t, 4, d.fn.MaxBlock())
	require.NoError(t, Verify(d.fn))
	t.Log(d.fn)
}

func TestBuilder_Unterminated(t *testing.T) {
	b := NewBuilder("unterminated")
	bb := b.Block()
	require.Panics(t, func() { b.Build() })
	b.Return(bb)
	require.Panics(t, func() { b.Return(bb) })
	require.NotNil(t, b.Build())
}

func TestSwitch_Successors(t *testing.T) {
	b := NewBuilder("switch")
	entry := b.Block()
	bb1 := b.Block()
	bb2 := b.Block()
	v := b.Const(entry, ClassInt, 0)
	b.Switch(entry, v, bb2, map[int64]*BasicBlock{3: bb2, 1: bb1, 2: bb1})
	b.Return(bb1)
	b.Return(bb2)

	/* distinct targets, cases in key order, then the default */
	require.Equal(t, []*BasicBlock{bb1, bb2}, entry.Successors())
	require.Equal(t, []*BasicBlock{entry}, bb1.Pred)
	require.Equal(t, []*BasicBlock{entry}, bb2.Pred)
	require.NoError(t, Verify(b.Build()))
}

func TestFunc_DefAndUses(t *testing.T) {
	d := newDiamond()
	def, bb, ok := d.fn.DefOf(d.p)
	require.True(t, ok)
	require.Equal(t, d.exit, bb)
	require.IsType(t, (*IrPhi)(nil), def)

	/* x is only used by the Phi node, on the edge from the left arm */
	uses := d.fn.UsesOf(d.x)
	require.Len(t, uses, 1)
	require.True(t, uses[0].IsPhi())
	require.Equal(t, d.left, uses[0].Pred)
	require.Equal(t, d.x, uses[0].Get())

	/* p is used by the return */
	uses = d.fn.UsesOf(d.p)
	require.Len(t, uses, 1)
	require.False(t, uses[0].IsPhi())
	require.Equal(t, d.exit.Term, uses[0].Node)

	/* patch through the use */
	uses = d.fn.UsesOf(d.y)
	uses[0].Set(d.x)
	r, ok := d.exit.Phi[0].Incoming(d.right)
	require.True(t, ok)
	require.Equal(t, d.x, r)
	require.Empty(t, d.fn.UsesOf(d.y))
}

func TestFunc_ReplaceAllUses(t *testing.T) {
	d := newDiamond()
	phi := d.exit.Phi[0]
	_, ok := d.fn.ConstantValue(phi)
	require.False(t, ok)

	/* both edges carry x now */
	d.fn.ReplaceAllUses(d.y, d.x)
	r, ok := d.fn.ConstantValue(phi)
	require.True(t, ok)
	require.Equal(t, d.x, r)

	/* fold the Phi node away */
	d.fn.ReplaceAllUses(phi.R, r)
	d.fn.ErasePhi(phi)
	require.True(t, phi.Erased())
	require.Nil(t, phi.Block())
	require.Empty(t, d.exit.Phi)
	require.Equal(t, []Reg{d.x}, d.exit.Term.(*IrReturn).R)
	require.Panics(t, func() { d.fn.ErasePhi(phi) })
}

func TestPhi_ConstantValue(t *testing.T) {
	d := newDiamond()
	phi := &IrPhi{R: mkreg(ClassInt, 100)}

	/* a Phi of itself and one other value */
	phi.AddIncoming(d.x, d.left)
	phi.AddIncoming(phi.R, d.right)
	r, ok := phi.ConstantValue()
	require.True(t, ok)
	require.Equal(t, d.x, r)

	/* only itself */
	phi.V = []IrPhiEdge{{B: d.left, R: phi.R}, {B: d.right, R: phi.R}}
	_, ok = phi.ConstantValue()
	require.False(t, ok)

	/* no edges at all */
	phi.V = nil
	_, ok = phi.ConstantValue()
	require.False(t, ok)
}

func TestFunc_InsertUndef(t *testing.T) {
	d := newDiamond()
	first := d.left.Ins[0]
	r1 := d.fn.NewReg(ClassInt)
	r2 := d.fn.NewReg(ClassInt)

	/* before the first instruction, then before the terminator */
	d.fn.InsertUndef(d.left, first, r1)
	d.fn.InsertUndef(d.left, nil, r2)
	require.Len(t, d.left.Ins, 3)
	require.Equal(t, &IrUndef{R: r1}, d.left.Ins[0])
	require.Equal(t, first, d.left.Ins[1])
	require.Equal(t, &IrUndef{R: r2}, d.left.Ins[2])
	require.NoError(t, Verify(d.fn))

	/* not in this block */
	require.Panics(t, func() { d.fn.InsertUndef(d.right, first, d.fn.NewReg(ClassInt)) })
}

func TestFunc_ForeignBlock(t *testing.T) {
	d := newDiamond()
	other := newDiamond()
	require.Panics(t, func() { d.fn.Predecessors(other.exit) })
	require.Panics(t, func() { d.fn.InsertPhi(other.exit, d.fn.NewReg(ClassInt)) })
}

func TestFunc_BlockOrder(t *testing.T) {
	d := newDiamond()
	rpo := d.fn.ReversePostOrder()
	require.Len(t, rpo, 4)
	require.Equal(t, d.entry, rpo[0])
	require.Equal(t, d.exit, rpo[3])

	/* post order visits every reachable block once */
	n := 0
	d.fn.PostOrder().ForEach(func(bb *BasicBlock) { n++ })
	require.Equal(t, 4, n)

	/* an orphan block is not reachable */
	orphan := d.fn.CreateBlock()
	orphan.termReturn(nil)
	live := d.fn.Reachable()
	require.Len(t, live, 4)
	require.False(t, live[orphan.Id])
}

func TestFunc_Dot(t *testing.T) {
	d := newDiamond()
	buf, err := d.fn.Dot()
	require.NoError(t, err)
	require.Contains(t, string(buf), "digraph diamond")
	require.Contains(t, string(buf), "bb_1 -> bb_2")
	require.Contains(t, string(buf), "bb_3 -> bb_4")
	require.Equal(t, 4, d.fn.Graph().Nodes().Len())
}
