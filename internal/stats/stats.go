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

package stats

import (
	"sync/atomic"
)

var (
	Queries    uint64
	CacheHit   uint64
	CacheMiss  uint64
	PhiCreated uint64
	PhiElided  uint64
	PhiKept    uint64
	UndefCount uint64
)

func Count(p *uint64) {
	atomic.AddUint64(p, 1)
}

func Load(p *uint64) int {
	return int(atomic.LoadUint64(p))
}
