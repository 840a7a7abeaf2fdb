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
	"github.com/oleiade/lane"
)

type _IterFrame struct {
	bb   *BasicBlock
	succ []*BasicBlock
	next int
}

// BasicBlockIter walks the blocks reachable from the root in post order. Each
// frame on the stack remembers which successors of its block were tried.
type BasicBlockIter struct {
	bb    *BasicBlock
	size  int
	seen  map[int]bool
	stack *lane.Stack
}

func newBasicBlockIter(fn *Func) *BasicBlockIter {
	ret := &BasicBlockIter{
		size:  len(fn.Blocks),
		seen:  make(map[int]bool, len(fn.Blocks)),
		stack: lane.NewStack(),
	}

	/* start from the root */
	ret.enter(fn.Root)
	return ret
}

func (self *BasicBlockIter) enter(bb *BasicBlock) {
	self.seen[bb.Id] = true
	self.stack.Push(&_IterFrame{bb: bb, succ: bb.Successors()})
}

// Next moves to the next block in post order, and reports false once every
// reachable block has been visited.
func (self *BasicBlockIter) Next() bool {
	for !self.stack.Empty() {
		fp := self.stack.Head().(*_IterFrame)

		/* skip the successors already visited */
		for fp.next < len(fp.succ) && self.seen[fp.succ[fp.next].Id] {
			fp.next++
		}

		/* descend into the first new one */
		if fp.next < len(fp.succ) {
			self.enter(fp.succ[fp.next])
			continue
		}

		/* all the successors are done, the block itself is next */
		self.stack.Pop()
		self.bb = fp.bb
		return true
	}

	/* nothing left */
	self.bb = nil
	return false
}

func (self *BasicBlockIter) Block() *BasicBlock {
	return self.bb
}

func (self *BasicBlockIter) ForEach(action func(bb *BasicBlock)) {
	for self.Next() {
		action(self.Block())
	}
}

// Reversed drains the iterator and returns the blocks in reverse post order.
func (self *BasicBlockIter) Reversed() []*BasicBlock {
	ret := make([]*BasicBlock, 0, self.size)
	self.ForEach(func(bb *BasicBlock) { ret = append(ret, bb) })

	/* flip it */
	for i, j := 0, len(ret)-1; i < j; i, j = i+1, j-1 {
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret
}

func (self *Func) PostOrder() *BasicBlockIter {
	return newBasicBlockIter(self)
}

func (self *Func) ReversePostOrder() []*BasicBlock {
	return newBasicBlockIter(self).Reversed()
}

// Reachable returns the Ids of every block reachable from the root.
func (self *Func) Reachable() map[int]bool {
	ret := make(map[int]bool, len(self.Blocks))
	self.PostOrder().ForEach(func(bb *BasicBlock) { ret[bb.Id] = true })
	return ret
}
