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

	"github.com/cloudwego/ssaupdater/ir"
)

type _EntryKind uint8

const (
	_E_unset _EntryKind = iota
	_E_busy
	_E_value
	_E_undef
)

func (self _EntryKind) String() string {
	switch self {
	case _E_unset:
		return "unset"
	case _E_busy:
		return "busy"
	case _E_value:
		return "value"
	case _E_undef:
		return "undef"
	default:
		panic("unreachable")
	}
}

// _Entry is the availability of the tracked value at the end of one block.
// A busy entry belongs to a resolution further up in the recursion, phi is
// the placeholder created once a cycle came back to the block.
type _Entry struct {
	kind _EntryKind
	seed bool
	reg  ir.Reg
	phi  *ir.IrPhi
}

func entryOf(v Value) _Entry {
	if r, ok := v.Reg(); ok {
		return _Entry{kind: _E_value, reg: r}
	} else {
		return _Entry{kind: _E_undef}
	}
}

func (self _Entry) value() Value {
	switch self.kind {
	case _E_value:
		return Resolved(self.reg)
	case _E_undef:
		return Undef
	default:
		panic("ssaupdater: no value for a " + self.kind.String() + " entry")
	}
}

type _AvailCache struct {
	m map[*ir.BasicBlock]_Entry
}

func newAvailCache() _AvailCache {
	return _AvailCache{
		m: make(map[*ir.BasicBlock]_Entry),
	}
}

func (self *_AvailCache) reset() {
	for bb := range self.m {
		delete(self.m, bb)
	}
}

func (self *_AvailCache) get(bb *ir.BasicBlock) _Entry {
	return self.m[bb]
}

func (self *_AvailCache) has(bb *ir.BasicBlock) bool {
	return self.m[bb].kind != _E_unset
}

func (self *_AvailCache) seeded(bb *ir.BasicBlock) bool {
	return self.m[bb].seed
}

// seed records a client definition, it overwrites whatever was there.
func (self *_AvailCache) seed(bb *ir.BasicBlock, r ir.Reg) {
	self.set(bb, _Entry{kind: _E_value, seed: true, reg: r})
}

// set is the only place an entry changes state. Resolved entries never go
// back, and a block can only be resolved after it has been claimed.
func (self *_AvailCache) set(bb *ir.BasicBlock, e _Entry) {
	old := self.m[bb]

	/* check the transition, client seeds may overwrite anything */
	if !e.seed {
		switch old.kind {
		case _E_unset:
			if e.kind != _E_busy {
				panic(fmt.Sprintf("ssaupdater: bb_%d resolved without being claimed", bb.Id))
			}
		case _E_busy:
			if e.kind == _E_unset {
				panic(fmt.Sprintf("ssaupdater: bb_%d released while being resolved", bb.Id))
			}
		default:
			panic(fmt.Sprintf("ssaupdater: bb_%d is already resolved (%s)", bb.Id, old.kind))
		}
	}

	/* update the entry */
	self.m[bb] = e
}

// replace redirects every resolved entry holding from to to.
func (self *_AvailCache) replace(from ir.Reg, to ir.Reg) {
	for bb, e := range self.m {
		if e.kind == _E_value && e.reg == from {
			e.reg = to
			self.m[bb] = e
		}
	}
}
