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

package debug

import (
	"github.com/cloudwego/ssaupdater/internal/stats"
)

// A Stats records statistics about every SSA updater in the process.
type Stats struct {
	Queries int
	Cache   CacheStats
	Phi     PhiStats
	Undef   int
}

// A CacheStats records how often a block query was answered from the availability cache.
type CacheStats struct {
	Hit  int
	Miss int
}

// A PhiStats records the fate of the Phi nodes created by the updaters.
type PhiStats struct {
	Created int
	Elided  int
	Kept    int
}

// GetStats returns statistics of the SSA updaters.
func GetStats() Stats {
	return Stats{
		Queries: stats.Load(&stats.Queries),
		Undef:   stats.Load(&stats.UndefCount),
		Cache: CacheStats{
			Hit:  stats.Load(&stats.CacheHit),
			Miss: stats.Load(&stats.CacheMiss),
		},
		Phi: PhiStats{
			Created: stats.Load(&stats.PhiCreated),
			Elided:  stats.Load(&stats.PhiElided),
			Kept:    stats.Load(&stats.PhiKept),
		},
	}
}
