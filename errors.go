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
)

// UsageError occures when the updater is driven outside of its contract, such
// as querying before Initialize. It is raised as a panic.
type UsageError struct {
	Op     string
	Reason string
}

func (self UsageError) Error() string {
	return fmt.Sprintf("ssaupdater: %s: %s", self.Op, self.Reason)
}

// InvariantError occures when the resolver reaches a state that a well-formed
// control flow graph never produces. It is only raised as a panic in debug mode.
type InvariantError struct {
	Block  int
	Reason string
}

func (self InvariantError) Error() string {
	return fmt.Sprintf("ssaupdater: invariant violated at bb_%d: %s", self.Block, self.Reason)
}

func usage(op string, reason string) {
	panic(UsageError{
		Op:     op,
		Reason: reason,
	})
}
