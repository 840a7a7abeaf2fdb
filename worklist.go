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

type _PredValue struct {
	bb *ir.BasicBlock
	v  Value
}

// _Worklist is an explicit stack of (predecessor, value) pairs shared by the
// whole recursion. Each resolution pushes one frame starting at the length
// it recorded on entry, and trims the stack back to that length before it
// returns.
type _Worklist struct {
	buf []_PredValue
}

func (self *_Worklist) mark() int {
	return len(self.buf)
}

func (self *_Worklist) push(bb *ir.BasicBlock, v Value) {
	self.buf = append(self.buf, _PredValue{bb: bb, v: v})
}

func (self *_Worklist) frame(base int) []_PredValue {
	return self.buf[base:]
}

func (self *_Worklist) trim(base int) {
	for i := base; i < len(self.buf); i++ {
		self.buf[i] = _PredValue{}
	}
	self.buf = self.buf[:base]
}

func (self *_Worklist) reset() {
	self.trim(0)
}

func (self *_Worklist) replace(from ir.Reg, to ir.Reg) {
	for i, p := range self.buf {
		if r, ok := p.v.Reg(); ok && r == from {
			self.buf[i].v = Resolved(to)
		}
	}
}
