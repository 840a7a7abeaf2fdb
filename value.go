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

// Value is the outcome of a query, either a register or Undef when no
// definition reaches the queried point.
type Value struct {
	reg   ir.Reg
	undef bool
}

// Undef means no definition of the tracked value reaches the point.
var Undef = Value{undef: true}

func Resolved(r ir.Reg) Value {
	if !r.Valid() {
		panic("ssaupdater: resolving to an invalid register")
	} else {
		return Value{reg: r}
	}
}

func (self Value) IsUndef() bool {
	return self.undef
}

// Reg returns the register, ok is false for Undef.
func (self Value) Reg() (ir.Reg, bool) {
	return self.reg, !self.undef && self.reg.Valid()
}

func (self Value) String() string {
	if self.undef {
		return "undef"
	} else {
		return self.reg.String()
	}
}
