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

package opts

import (
	"os"
	"strconv"
)

const (
	_DefaultDebug         = false // invariant breaks are logged, not fatal
	_DefaultTrackInserted = true  // remember kept Phi nodes for InsertedPhis
)

var (
	Debug         = parseOrDefault("SSAUPDATER_DEBUG", _DefaultDebug)
	TrackInserted = parseOrDefault("SSAUPDATER_TRACK_INSERTED", _DefaultTrackInserted)
)

func parseOrDefault(key string, def bool) bool {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("ssaupdater: invalid value for " + key)
	} else {
		return val
	}
}
