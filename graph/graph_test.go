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

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// probeNode is a minimal fixture implementing Introspectable, Upstream,
// Downstream, Backpressurable, Cancellable and Completable, enough to drive
// a linear chain through the walker.
type probeNode struct {
	id         string
	up, down   any
	requested  int64
	buffered   int
	cancelled  bool
	terminated bool
	failed     bool
}

func (n *probeNode) IntrospectID() string { return n.id }
func (n *probeNode) Upstream() any        { return n.up }
func (n *probeNode) Downstream() any      { return n.down }
func (n *probeNode) Requested() int64     { return n.requested }
func (n *probeNode) Buffered() int        { return n.buffered }
func (n *probeNode) IsCancelled() bool    { return n.cancelled }
func (n *probeNode) IsTerminated() bool   { return n.terminated }
func (n *probeNode) Failed() bool         { return n.failed }

func nodeByLabel(g *Graph, label string) *Node {
	for _, n := range g.Nodes {
		if n.Label == label {
			return n
		}
	}

	return nil
}

func TestWalkLinearChain(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := &probeNode{id: "source"}
	middle := &probeNode{id: "middle", up: source}
	sink := &probeNode{id: "sink", up: middle}

	g := Walk(sink, false)

	is.Len(g.Nodes, 3)
	is.Len(g.Edges, 2)
	is.False(g.Cyclic)

	src := nodeByLabel(g, "source")
	mid := nodeByLabel(g, "middle")
	snk := nodeByLabel(g, "sink")
	is.NotNil(src)
	is.NotNil(mid)
	is.NotNil(snk)

	is.Contains(g.Edges, &Edge{From: src.ID, To: mid.ID, Type: EdgePlain})
	is.Contains(g.Edges, &Edge{From: mid.ID, To: snk.ID, Type: EdgePlain})
}

func TestWalkDetectsCycle(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := &probeNode{id: "a"}
	b := &probeNode{id: "b"}
	a.up = b
	b.up = a

	g := Walk(a, false)

	is.True(g.Cyclic)
	is.Len(g.Nodes, 2)
}

func TestWalkStringReference(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	sink := &probeNode{id: "sink", up: "external-source"}

	g := Walk(sink, false)

	is.Len(g.Nodes, 2)

	ref := nodeByLabel(g, "external-source")
	is.NotNil(ref)
	is.True(ref.Reference)

	snk := nodeByLabel(g, "sink")
	is.Contains(g.Edges, &Edge{From: ref.ID, To: snk.ID, Type: EdgeReference})
}

// traceNode wraps probeNode with a TraceOnly declaration.
type traceNode struct {
	probeNode

	traceOnly bool
}

func (n *traceNode) TraceOnly() bool { return n.traceOnly }

func TestWalkSkipsTraceOnlyAndReattaches(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := &probeNode{id: "source"}
	stage := &traceNode{probeNode: probeNode{id: "stage", up: source}, traceOnly: true}
	sink := &probeNode{id: "sink", up: stage}

	g := Walk(sink, false)

	is.Len(g.Nodes, 2, "the traced-off stage should not get a node of its own")
	is.Nil(nodeByLabel(g, "stage"))

	src := nodeByLabel(g, "source")
	snk := nodeByLabel(g, "sink")
	is.NotNil(src)
	is.NotNil(snk)

	is.Contains(g.Edges, &Edge{From: src.ID, To: snk.ID, Type: EdgePlain},
		"the edge across the skipped stage must reattach source directly to sink")
}

func TestWalkTraceModeRevealsTraceOnly(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := &probeNode{id: "source"}
	stage := &traceNode{probeNode: probeNode{id: "stage", up: source}, traceOnly: true}
	sink := &probeNode{id: "sink", up: stage}

	g := Walk(sink, true)

	is.Len(g.Nodes, 3)
	is.NotNil(nodeByLabel(g, "stage"))
}

func TestWalkDefaultLabelFromType(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g := Walk(&plainNode{}, false)

	is.Len(g.Nodes, 1)
	is.Equal("graph.plainNode", g.Nodes[0].Label)
}

type plainNode struct{}

func TestWalkBackpressurableNodeReportsBuffered(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := &probeNode{id: "source", requested: 3, buffered: 2}

	g := Walk(source, false)

	n := nodeByLabel(g, "source")
	is.NotNil(n)

	raw, err := json.Marshal(n)
	is.NoError(err)

	var decoded map[string]any
	is.NoError(json.Unmarshal(raw, &decoded))

	is.Equal(float64(2), decoded["buffered"], "a Backpressurable node's buffered count must survive into JSON")
}

func TestNodeMarshalJSONOmitsUnknownAndSerializesUnbounded(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	n := &Node{ID: 1, Label: "x"}
	n.RequestedDownstr, n.hasRequestedDownstr = Unbounded, true

	raw, err := json.Marshal(n)
	is.NoError(err)

	var decoded map[string]any
	is.NoError(json.Unmarshal(raw, &decoded))

	is.Equal("unbounded", decoded["requestedDownstream"])
	is.NotContains(decoded, "capacity")
	is.NotContains(decoded, "buffered")
	is.NotContains(decoded, "period")
}

// multiNode exposes two upstreams, for MultiUpstream fan-in.
type multiNode struct {
	probeNode

	ups []any
}

func (n *multiNode) Upstreams() []any { return n.ups }

func TestWalkMultiUpstream(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	primary := &probeNode{id: "primary"}
	other := &probeNode{id: "other"}
	combiner := &multiNode{probeNode: probeNode{id: "combiner"}, ups: []any{primary, other}}

	g := Walk(combiner, false)

	is.Len(g.Nodes, 3)

	comb := nodeByLabel(g, "combiner")
	pri := nodeByLabel(g, "primary")
	oth := nodeByLabel(g, "other")

	is.Contains(g.Edges, &Edge{From: pri.ID, To: comb.ID, Type: EdgeInner})
	is.Contains(g.Edges, &Edge{From: oth.ID, To: comb.ID, Type: EdgeInner})
}

func TestGraphPruneRemovesTerminatedAndCancelled(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := &probeNode{id: "source", terminated: true, cancelled: true}
	sink := &probeNode{id: "sink", up: source}

	g := Walk(sink, false)
	is.Len(g.Nodes, 2)

	removed := g.Prune()

	is.Len(removed, 1)
	is.Len(g.Nodes, 1)
	is.Equal("sink", g.Nodes[0].Label)
	is.Empty(g.Edges)
}

func TestGraphPruneKeepsLiveNodes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := &probeNode{id: "source"}
	sink := &probeNode{id: "sink", up: source}

	g := Walk(sink, false)
	removed := g.Prune()

	is.Empty(removed)
	is.Len(g.Nodes, 2)
	is.Len(g.Edges, 1)
}
