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
	"github.com/cloudwego/ssaupdater/internal/opts"
	"github.com/cloudwego/ssaupdater/ir"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithDebug turns internal invariant violations into panics instead of
// warnings.
//
// This value can also be configured with the `SSAUPDATER_DEBUG` environment
// variable.
//
// The default value of this option is "false".
func WithDebug(v bool) Option {
	return func(o *opts.Options) { o.Debug = v }
}

// WithTracking controls whether the updater remembers the Phi nodes it keeps,
// which are then available from Updater.InsertedPhis.
//
// This value can also be configured with the `SSAUPDATER_TRACK_INSERTED`
// environment variable.
//
// The default value of this option is "true".
func WithTracking(v bool) Option {
	return func(o *opts.Options) { o.TrackInserted = v }
}

// WithInsertedPhis appends every Phi node kept by the updater to buf, across
// all sessions. Phi nodes are appended once the query that created them
// returns, so nodes folded away by the same query never show up. buf is owned
// by the caller and never cleared by the updater.
func WithInsertedPhis(buf *[]*ir.IrPhi) Option {
	if buf == nil {
		panic("ssaupdater: nil buffer for inserted Phi nodes")
	} else {
		return func(o *opts.Options) { o.Inserted = buf }
	}
}

// SetDebug sets the default debug mode for all updaters created from now on.
//
// Returns the old opts.Debug value.
func SetDebug(v bool) bool {
	v, opts.Debug = opts.Debug, v
	return v
}
