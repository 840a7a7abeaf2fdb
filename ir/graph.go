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
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// BlockNode presents a block as a gonum graph node.
type BlockNode struct {
	*BasicBlock
}

func (self BlockNode) ID() int64 {
	return int64(self.Id)
}

func (self BlockNode) DOTID() string {
	return self.String()
}

func (self BlockNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "shape", Value: "box"},
		{Key: "label", Value: self.dump()},
	}
}

// Graph returns the control flow graph of fn. Self loops are dropped, simple
// graphs cannot hold them and they never affect dominance.
func (self *Func) Graph() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()

	/* add every block */
	for _, bb := range self.Blocks {
		g.AddNode(BlockNode{bb})
	}

	/* add every edge */
	for _, bb := range self.Blocks {
		for _, to := range bb.Successors() {
			if to != bb {
				g.SetEdge(g.NewEdge(BlockNode{bb}, BlockNode{to}))
			}
		}
	}
	return g
}

// Dot renders the control flow graph in Graphviz format.
func (self *Func) Dot() ([]byte, error) {
	return dot.Marshal(self.Graph(), self.Name, "", "    ")
}
