// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graph

// Prune removes terminated nodes from g in place (spec §4.8
// "remove_terminated_nodes") and returns the IDs that were removed.
//
// A probed node is removed when it is both Terminated and Cancelled. A
// reference stub node is removed when every edge feeding into it
// originates from a node that is itself Terminated and Cancelled (a
// reference node has no terminal state of its own to probe).
func (g *Graph) Prune() []int {
	byID := make(map[int]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}

	inboundFrom := make(map[int][]int)
	for _, e := range g.Edges {
		inboundFrom[e.To] = append(inboundFrom[e.To], e.From)
	}

	removed := map[int]bool{}

	for _, n := range g.Nodes {
		if n.Reference {
			if isReferenceDead(n, inboundFrom, byID) {
				removed[n.ID] = true
			}

			continue
		}

		if n.Terminated && n.Cancelled {
			removed[n.ID] = true
		}
	}

	g.Nodes = filterNodes(g.Nodes, removed)
	g.Edges = filterEdges(g.Edges, removed)

	ids := make([]int, 0, len(removed))
	for id := range removed {
		ids = append(ids, id)
	}

	return ids
}

func isReferenceDead(ref *Node, inboundFrom map[int][]int, byID map[int]*Node) bool {
	sources := inboundFrom[ref.ID]
	if len(sources) == 0 {
		return false
	}

	for _, srcID := range sources {
		src, ok := byID[srcID]
		if !ok || src.Reference {
			return false
		}

		if !(src.Terminated && src.Cancelled) {
			return false
		}
	}

	return true
}

func filterNodes(nodes []*Node, removed map[int]bool) []*Node {
	kept := make([]*Node, 0, len(nodes))

	for _, n := range nodes {
		if !removed[n.ID] {
			kept = append(kept, n)
		}
	}

	return kept
}

func filterEdges(edges []*Edge, removed map[int]bool) []*Edge {
	kept := make([]*Edge, 0, len(edges))

	for _, e := range edges {
		if !removed[e.From] && !removed[e.To] {
			kept = append(kept, e)
		}
	}

	return kept
}
