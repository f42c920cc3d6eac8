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

package rs

import "sync/atomic"

// Subscription is the per-subscription control handle delivered to a
// Subscriber via OnSubscribe (spec §3, §4.2, §6). It carries the two
// operations a subscriber is allowed to perform: requesting more demand, and
// cancelling.
//
// The source code this package generalizes from expresses Subscription
// variants through inheritance (one subclass per source kind). This package
// re-architects that as a tagged variant instead: a shared subscriptionCore
// embedded by each driver (iteratorSubscription, timerSingleSubscription,
// timerIntervalSubscription, combinerSubscription), dispatched by the
// driver's own Request/Cancel methods rather than by a type switch (spec §9).
type Subscription interface {
	// Request authorizes n more calls to OnNext. n must be > 0; n <= 0 is a
	// protocol violation reported via OnError, terminating the subscription
	// (spec §3, §4.2).
	Request(n int64)
	// Cancel requests that no further signals be delivered. Idempotent, and
	// safe to call concurrently with an in-flight emission (spec §4.2, §5).
	Cancel()
}

// subscriptionCore is the shared control-plane state of every Subscription
// variant in this package: the atomic demand counter and the cancellation
// flag (spec §3 "Shared fields"). All other driver-local state (iterator
// cursor, combiner latest slot, fusion lookahead) belongs to the embedding
// driver and is touched only by whichever goroutine currently holds the
// emission lease (spec §3 "Ownership").
type subscriptionCore struct {
	demand     demand
	cancelled  atomic.Bool
	terminated atomic.Bool // true once a terminal signal (complete xor error) has been delivered
	failed     atomic.Bool // true once that terminal signal was specifically an error
}

// cancel sets the cancellation flag. Idempotent; an unconditional write, per
// spec §5.
func (c *subscriptionCore) cancel() {
	c.cancelled.Store(true)
}

// isCancelled is an unconditional read of the cancellation flag.
func (c *subscriptionCore) isCancelled() bool {
	return c.cancelled.Load()
}

// isTerminated reports whether a terminal signal has already been (or is
// concurrently being) delivered.
func (c *subscriptionCore) isTerminated() bool {
	return c.terminated.Load()
}

// markTerminated CASes the terminated flag false->true, returning true only
// for the caller that won the race to deliver the terminal signal. This is
// what guarantees "at most one terminal signal" under concurrent producers
// (spec §3).
func (c *subscriptionCore) markTerminated() bool {
	return c.terminated.CompareAndSwap(false, true)
}

// markFailed records that the (about to be delivered) terminal signal is an
// error, for graph introspection's Completable.Failed probe.
func (c *subscriptionCore) markFailed() {
	c.failed.Store(true)
}

// The methods below give every driver embedding subscriptionCore the
// capability traits the graph package probes for (SPEC_FULL.md §4.8.1),
// without this package importing graph: Go interface satisfaction is
// structural, so graph.Cancellable, graph.Completable, graph.Requestable,
// and graph.Backpressurable are all satisfied by these exported methods
// alone.

// IsCancelled reports whether Cancel has been called.
func (c *subscriptionCore) IsCancelled() bool {
	return c.isCancelled()
}

// IsTerminated reports whether a terminal signal has been delivered.
func (c *subscriptionCore) IsTerminated() bool {
	return c.isTerminated()
}

// Failed reports whether the terminal signal delivered (if any) was an
// error rather than a completion.
func (c *subscriptionCore) Failed() bool {
	return c.failed.Load()
}

// RequestedAmount reports the current outstanding demand.
func (c *subscriptionCore) RequestedAmount() int64 {
	return c.demand.load()
}

// Requested reports the current outstanding demand; this package's drivers
// never buffer, so Buffered is always 0.
func (c *subscriptionCore) Requested() int64 {
	return c.demand.load()
}

// Buffered always reports 0: none of this package's drivers buffer values,
// they either emit synchronously under the emission lease or drop (spec
// §5 "the only shared mutable state ... is the demand counter and the
// cancellation flag").
func (c *subscriptionCore) Buffered() int {
	return 0
}

// requestAndDrive implements the common shape of every variant's Request
// method (spec §4.2): validate, and on success add to the demand counter; if
// the counter transitioned from zero to positive, the calling goroutine has
// acquired the emission lease and must run drive. A protocol error on
// validation is delivered through reportProtocolError instead (the drivers
// pass their own terminateWithError, which guards against a second terminal
// signal), after which the core is marked terminated.
//
// This is the lock-free reentrancy pattern from spec §9 ("Reentrant request
// via emission lease"): a thread that calls Request while another thread
// already holds the lease only bumps the counter and returns; the lease
// holder is responsible for re-reading the counter before releasing it, so
// no demand is ever lost.
func (c *subscriptionCore) requestAndDrive(n int64, reportProtocolError func(error), drive func()) {
	if c.isTerminated() {
		return
	}

	if err := validateRequest(n); err != nil {
		reportProtocolError(err)
		c.markTerminated()

		return
	}

	if c.isCancelled() {
		return
	}

	if prev := c.demand.add(n); prev == 0 {
		drive()
	}
}
