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

// Class is the value class of a register, it constrains which values
// may be merged together.
type Class uint8

const (
	ClassInt Class = iota
	ClassPtr
	ClassFloat
)

func (self Class) String() string {
	switch self {
	case ClassInt:
		return "int"
	case ClassPtr:
		return "ptr"
	case ClassFloat:
		return "float"
	default:
		return fmt.Sprintf("class(%d)", uint8(self))
	}
}

// Reg is a virtual register, the symbolic name of one SSA value.
type Reg uint64

const (
	_B_class = 56
	_M_class = 0xff
)

const (
	_R_class = _M_class << _B_class
	_R_index = (1 << _B_class) - 1
)

// Rz is the "no register" value, index 0 is never allocated.
const Rz Reg = 0

func mkreg(class Class, i int) Reg {
	if i <= 0 || i > _R_index {
		panic(fmt.Sprintf("mkreg: invalid register index: %d", i))
	} else {
		return Reg(uint64(class)<<_B_class) | Reg(i)
	}
}

func (self Reg) Class() Class {
	return Class((self & _R_class) >> _B_class)
}

func (self Reg) Index() int {
	return int(self & _R_index)
}

func (self Reg) Valid() bool {
	return self.Index() != 0
}

func (self Reg) String() string {
	if !self.Valid() {
		return "%_"
	}

	/* well-known classes have short prefixes */
	switch self.Class() {
	case ClassInt:
		return fmt.Sprintf("%%r%d", self.Index())
	case ClassPtr:
		return fmt.Sprintf("%%p%d", self.Index())
	case ClassFloat:
		return fmt.Sprintf("%%f%d", self.Index())
	default:
		return fmt.Sprintf("%%c%d.%d", self.Class(), self.Index())
	}
}
