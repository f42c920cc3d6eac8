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

// Package graph walks a live pipeline by probing each node for capability
// traits, producing a point-in-time graph of nodes and directed edges (spec
// §4.8). It is opt-in diagnostic tooling: nothing in the root package
// imports it, and it is never wired into a production call path.
//
// The teacher's only introspection code (ee/internal/introspection) walks
// AST call sites to describe a function's source location, not a live
// object graph; this package has no teacher file to adapt and is built
// from the capability-probing philosophy in spec §9 "Capability probing via
// runtime type checks" instead.
package graph

// Unbounded mirrors the root package's demand sentinel for serialization
// purposes, without importing the root package (which must not depend on
// graph, and graph should not need to depend back on it for one constant).
const Unbounded int64 = 1<<63 - 1

// Upstream is implemented by a node with exactly one predecessor.
type Upstream interface {
	Upstream() any
}

// MultiUpstream is implemented by a node with more than one predecessor
// (e.g. the WithLatestFrom combiner driver).
type MultiUpstream interface {
	Upstreams() []any
}

// Downstream is implemented by a node with exactly one successor.
type Downstream interface {
	Downstream() any
}

// MultiDownstream is implemented by a node with more than one successor.
type MultiDownstream interface {
	Downstreams() []any
}

// LoopBack is implemented by a node that declares a feedback edge: an input
// node and an output node outside the node's own linear chain.
type LoopBack interface {
	LoopBack() (in any, out any)
}

// Introspectable is implemented by a node willing to report a stable
// identity label distinct from its Go type name.
type Introspectable interface {
	IntrospectID() string
}

// Backpressurable is implemented by a node that can report its requested
// and buffered counts.
type Backpressurable interface {
	Requested() int64
	Buffered() int
}

// Cancellable is implemented by a node that can report whether it has been
// cancelled.
type Cancellable interface {
	IsCancelled() bool
}

// Completable is implemented by a node that can report whether it has
// reached a terminal state (complete or error), and whether that terminal
// state was an error.
type Completable interface {
	IsTerminated() bool
	Failed() bool
}

// Prefetchable is implemented by a node with a fixed upstream capacity,
// upstream limit, or expected-upstream count.
type Prefetchable interface {
	Capacity() int
	UpstreamLimit() int
	ExpectedUpstream() int
}

// Requestable is implemented by a node that exposes the raw requested
// amount (distinct from Backpressurable, which also reports buffering).
type Requestable interface {
	RequestedAmount() int64
}

// Timeable is implemented by a timer-backed node that can report its
// period (zero for a single-shot source).
type Timeable interface {
	Period() int64
}

// TraceOnly is implemented by a node that exists only for diagnostic
// staging: it is skipped by Walk unless trace mode is enabled, and its
// neighbours are attached to its nearest visible ancestor instead.
type TraceOnly interface {
	TraceOnly() bool
}
