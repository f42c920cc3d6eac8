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
	"reflect"

	"github.com/rsgo/rs/internal/xtime"
)

// EdgeType classifies a directed edge (spec §4.8).
type EdgeType string

const (
	// EdgePlain is the default, untyped edge between a linear
	// upstream/downstream pair.
	EdgePlain EdgeType = ""
	// EdgeFeedbackLoop marks an edge declared via LoopBack.
	EdgeFeedbackLoop EdgeType = "feedbackLoop"
	// EdgeInner marks a fan-out/fan-in edge from a Multi-Upstream or
	// Multi-Downstream declaration.
	EdgeInner EdgeType = "inner"
	// EdgeReference marks an edge to a stub node standing in for a
	// virtual, string-identified external sink.
	EdgeReference EdgeType = "reference"
)

// Node is one arena-allocated vertex in a walked graph: an integer
// identity plus whatever attributes the live object agreed to report at
// walk time (spec §9 "Cyclic graphs" — the walker owns nodes; references
// into the live pipeline are non-owning and must be re-probed, never
// cached, between walks).
type Node struct {
	ID    int
	Label string

	Capacity         int
	Buffered         int
	RequestedDownstr int64
	UpstreamLimit    int
	ExpectedUpstream int
	Period           int64
	Active           bool
	Terminated       bool
	Cancelled        bool
	Failed           bool

	// Reference marks a stub node standing in for a virtual,
	// string-identified external sink rather than a probed live object.
	Reference bool

	hasCapacity, hasBuffered, hasRequestedDownstr bool
	hasUpstreamLimit, hasExpectedUpstream         bool
	hasPeriod                                     bool
}

// nodeWire is the JSON shape of a Node: numeric fields the node never
// declared are omitted outright (spec §4.8 "Emission"), and a field whose
// value is the Unbounded sentinel serializes as the literal string
// "unbounded" instead of a number.
type nodeWire struct {
	ID               int    `json:"id"`
	Label            string `json:"label"`
	Capacity         any    `json:"capacity,omitempty"`
	Buffered         any    `json:"buffered,omitempty"`
	RequestedDownstr any    `json:"requestedDownstream,omitempty"`
	UpstreamLimit    any    `json:"upstreamLimit,omitempty"`
	ExpectedUpstream any    `json:"expectedUpstream,omitempty"`
	Period           any    `json:"period,omitempty"`
	Active           bool   `json:"active,omitempty"`
	Terminated       bool   `json:"terminated,omitempty"`
	Cancelled        bool   `json:"cancelled,omitempty"`
	Failed           bool   `json:"failed,omitempty"`
	Reference        bool   `json:"reference,omitempty"`
}

func sentinelInt64(has bool, v int64) any {
	if !has {
		return nil
	}

	if v == Unbounded {
		return "unbounded"
	}

	return v
}

func sentinelInt(has bool, v int) any {
	if !has {
		return nil
	}

	return v
}

// MarshalJSON implements json.Marshaler, applying the unknown-attribute
// omission and the "unbounded" sentinel string (spec §4.8 "Emission").
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeWire{
		ID:               n.ID,
		Label:            n.Label,
		Capacity:         sentinelInt(n.hasCapacity, n.Capacity),
		Buffered:         sentinelInt(n.hasBuffered, n.Buffered),
		RequestedDownstr: sentinelInt64(n.hasRequestedDownstr, n.RequestedDownstr),
		UpstreamLimit:    sentinelInt(n.hasUpstreamLimit, n.UpstreamLimit),
		ExpectedUpstream: sentinelInt(n.hasExpectedUpstream, n.ExpectedUpstream),
		Period:           sentinelInt64(n.hasPeriod, n.Period),
		Active:           n.Active,
		Terminated:       n.Terminated,
		Cancelled:        n.Cancelled,
		Failed:           n.Failed,
		Reference:        n.Reference,
	})
}

// Edge is one directed edge between two node IDs.
type Edge struct {
	From int      `json:"from"`
	To   int      `json:"to"`
	Type EdgeType `json:"type,omitempty"`
}

// Graph is the result of one Walk call (spec §4.8 "Emission").
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	// Cyclic is set when the walk re-entered an already-visited node.
	Cyclic bool `json:"cyclic,omitempty"`
	// Trace reports whether the walk ran with trace mode enabled.
	Trace bool `json:"trace,omitempty"`
	// Full reports whether the walk covered the entire reachable set
	// (always true for this package's single-root Walk; kept for wire
	// compatibility with partial/bounded walks a caller might layer on).
	Full bool `json:"full,omitempty"`
	// Timestamp is the monotonic snapshot instant, set by WalkAt.
	Timestamp *int64 `json:"timestamp,omitempty"`
}

// walker holds the mutable state of one Walk call.
type walker struct {
	trace bool

	nodeIDs  map[any]int
	nodes    []*Node
	edges    []*Edge
	visiting map[any]bool
	cyclic   bool
}

// Walk probes root and everything reachable from it via the capability
// traits in capabilities.go, producing a best-effort snapshot graph (spec
// §5 "the graph introspection walker reads concurrently with live pipeline
// mutations and must tolerate torn or stale reads"). trace controls whether
// TraceOnly nodes are visible. The root itself always gets a node, even if
// it declares TraceOnly: there is no ancestor to reattach it to.
func Walk(root any, trace bool) *Graph {
	w := &walker{
		trace:    trace,
		nodeIDs:  map[any]int{},
		visiting: map[any]bool{},
	}

	w.visit(root)

	return &Graph{
		Nodes:  w.nodes,
		Edges:  w.edges,
		Cyclic: w.cyclic,
		Trace:  trace,
		Full:   true,
	}
}

// WalkAt is Walk plus a monotonic snapshot timestamp on the returned Graph,
// for a caller that wants to correlate successive snapshots (e.g. computing
// a buffered/requested delta between two polls of a live pipeline).
func WalkAt(root any, trace bool) *Graph {
	g := Walk(root, trace)
	ts := xtime.NowNanoMonotonic()
	g.Timestamp = &ts

	return g
}

// visit returns the node ID standing in for v, creating one on first sight
// and descending into v's declared neighbours. Every v passed to visit gets
// a real node of its own, even one implementing TraceOnly: the skip-and-
// reattach behavior lives in resolveThrough, applied only at the point a
// neighbour reference is resolved into an edge endpoint.
func (w *walker) visit(v any) int {
	if id, ok := w.nodeIDs[v]; ok {
		if w.visiting[v] {
			w.cyclic = true
		}

		return id
	}

	if name, ok := v.(string); ok {
		node := &Node{ID: len(w.nodes), Label: name, Reference: true}
		w.nodeIDs[v] = node.ID
		w.nodes = append(w.nodes, node)

		return node.ID
	}

	node := w.newNode(v)
	id := node.ID

	w.nodeIDs[v] = id
	w.visiting[v] = true
	w.nodes = append(w.nodes, node)

	w.descend(v, id)

	w.visiting[v] = false

	return id
}

// resolveThrough resolves a neighbour reference to the node an edge should
// actually land on. An ordinary neighbour is simply visit()ed. A neighbour
// implementing TraceOnly, with trace mode off, is never given a node of its
// own (spec "its neighbours are attached to its nearest visible ancestor
// instead"): resolveThrough instead follows that node's own Upstream or
// Downstream — whichever direction matches the edge currently being
// resolved — until it reaches a visible node, a string reference, or a dead
// end, recording every node it skips over in the cycle-detection map along
// the way. Fan-out reachable only through a skipped node's
// MultiUpstream/MultiDownstream/LoopBack is not followed; a node wanting
// its fan-out preserved in a traced-off walk should not declare TraceOnly.
func (w *walker) resolveThrough(v any, upstream bool) (id int, isReference bool) {
	for {
		if v == nil {
			return -1, false
		}

		if _, ok := v.(string); ok {
			return w.visit(v), true
		}

		skip, ok := v.(TraceOnly)
		if !ok || !skip.TraceOnly() || w.trace {
			return w.visit(v), false
		}

		if seenID, seen := w.nodeIDs[v]; seen {
			if w.visiting[v] {
				w.cyclic = true
			}

			return seenID, false
		}

		w.nodeIDs[v] = -1
		w.visiting[v] = true

		var next any

		if upstream {
			if up, ok := v.(Upstream); ok {
				next = up.Upstream()
			}
		} else if down, ok := v.(Downstream); ok {
			next = down.Downstream()
		}

		v = next
	}
}

// descend walks v's declared neighbours, linking each edge between v's own
// node (id) and whatever resolveThrough resolves the neighbour to.
func (w *walker) descend(v any, id int) {
	if up, ok := v.(Upstream); ok {
		if prev := up.Upstream(); prev != nil {
			fromID, isRef := w.resolveThrough(prev, true)
			w.addEdge(fromID, id, edgeType(isRef, EdgePlain))
		}
	}

	if multi, ok := v.(MultiUpstream); ok {
		for _, prev := range multi.Upstreams() {
			if prev != nil {
				fromID, isRef := w.resolveThrough(prev, true)
				w.addEdge(fromID, id, edgeType(isRef, EdgeInner))
			}
		}
	}

	if down, ok := v.(Downstream); ok {
		if next := down.Downstream(); next != nil {
			toID, isRef := w.resolveThrough(next, false)
			w.addEdge(id, toID, edgeType(isRef, EdgePlain))
		}
	}

	if multi, ok := v.(MultiDownstream); ok {
		for _, next := range multi.Downstreams() {
			if next != nil {
				toID, isRef := w.resolveThrough(next, false)
				w.addEdge(id, toID, edgeType(isRef, EdgeInner))
			}
		}
	}

	if lb, ok := v.(LoopBack); ok {
		in, out := lb.LoopBack()

		if in != nil {
			toID, isRef := w.resolveThrough(in, false)
			w.addEdge(id, toID, edgeType(isRef, EdgeFeedbackLoop))
		}

		if out != nil {
			fromID, isRef := w.resolveThrough(out, true)
			w.addEdge(fromID, id, edgeType(isRef, EdgeFeedbackLoop))
		}
	}
}

func edgeType(isReference bool, fallback EdgeType) EdgeType {
	if isReference {
		return EdgeReference
	}

	return fallback
}

func (w *walker) addEdge(fromID, toID int, typ EdgeType) {
	if fromID == -1 || toID == -1 {
		return
	}

	w.edges = append(w.edges, &Edge{From: fromID, To: toID, Type: typ})
}

// newNode probes every attribute capability v declares, defaulting unknown
// numeric attributes per spec §4.8 "Emission".
func (w *walker) newNode(v any) *Node {
	n := &Node{ID: len(w.nodes), Label: labelOf(v)}

	if p, ok := v.(Prefetchable); ok {
		n.Capacity, n.hasCapacity = p.Capacity(), true
		n.UpstreamLimit, n.hasUpstreamLimit = p.UpstreamLimit(), true
		n.ExpectedUpstream, n.hasExpectedUpstream = p.ExpectedUpstream(), true
	}

	if b, ok := v.(Backpressurable); ok {
		n.RequestedDownstr, n.hasRequestedDownstr = b.Requested(), true
		n.Buffered, n.hasBuffered = b.Buffered(), true
	}

	if r, ok := v.(Requestable); ok && !n.hasRequestedDownstr {
		n.RequestedDownstr, n.hasRequestedDownstr = r.RequestedAmount(), true
	}

	if t, ok := v.(Timeable); ok {
		n.Period, n.hasPeriod = t.Period(), true
	}

	if c, ok := v.(Cancellable); ok {
		n.Cancelled = c.IsCancelled()
	}

	if c, ok := v.(Completable); ok {
		n.Terminated = c.IsTerminated()
		n.Failed = c.Failed()
	}

	n.Active = !n.Terminated && !n.Cancelled

	return n
}

func labelOf(v any) string {
	if id, ok := v.(Introspectable); ok {
		return id.IntrospectID()
	}

	return typeName(v)
}

// typeName derives a node's default label from its Go type when it does
// not implement Introspectable.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.String()
}
