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

import "github.com/rsgo/rs/internal/xatomic"

// WithLatestFrom subscribes to a primary source p and an "other" source o,
// combining each value from p with the most recently seen value from o via
// f (spec §4.6). Values from p arriving before o has produced anything are
// dropped, and the driver automatically requests one more from p to make up
// for the drop (spec §4.6 "Demand accounting").
//
// Completion of o never completes the combined stream; completion of p
// does. An error from either side propagates and cancels the other
// subscription. Cancelling the combined subscription cancels both inputs.
func WithLatestFrom[P, O, R any](p Publisher[P], o Publisher[O], f func(p P, o O) (R, error)) Publisher[R] {
	return PublisherFunc[R](func(sub Subscriber[R]) {
		driver := &combinerSubscription[P, O, R]{subscriber: sub, combine: f}
		driver.latest = xatomic.NewPointer[O](nil)

		sub.OnSubscribe(driver)

		// Subscribing to o first gives a synchronous other-source a chance
		// to latch its first value before p starts pulling, rather than
		// every early p value being dropped for want of a latest (spec
		// §4.6 does not mandate an order; this is the more useful one for
		// the common case of a synchronous "other").
		o.Subscribe(&combinerOtherSubscriber[P, O, R]{driver: driver})
		p.Subscribe(&combinerPrimarySubscriber[P, O, R]{driver: driver})
	})
}

type combinerSubscription[P, O, R any] struct {
	subscriptionCore

	subscriber Subscriber[R]
	combine    func(P, O) (R, error)

	latest *xatomic.Pointer[O]

	primary Subscription
	other   Subscription
}

var _ Subscription = (*combinerSubscription[int, int, int])(nil)

// Request implements Subscription; all subscriber demand flows to the
// primary source only. The other source is always requested Unbounded, as
// soon as its own subscription arrives (see combinerOtherSubscriber below).
//
// This does not use requestAndDrive: that helper's drive callback only runs
// once per 0->positive demand transition, which is right for a driver that
// owns an emission loop it must not re-enter, but wrong here, since the
// combiner has no loop of its own and must forward every single Request(n)
// to the primary so an incrementally-backpressured subscriber (one that
// tops up demand by small amounts rather than requesting Unbounded once)
// isn't starved after its first request (spec §4.6).
func (d *combinerSubscription[P, O, R]) Request(n int64) {
	if d.isTerminated() {
		return
	}

	if err := validateRequest(n); err != nil {
		d.terminateWithError(err)
		return
	}

	if d.isCancelled() {
		return
	}

	d.demand.add(n)

	if d.primary != nil {
		d.primary.Request(n)
	}
}

// Cancel implements Subscription; cancels both children.
func (d *combinerSubscription[P, O, R]) Cancel() {
	d.cancel()

	if d.primary != nil {
		d.primary.Cancel()
	}

	if d.other != nil {
		d.other.Cancel()
	}
}

func (d *combinerSubscription[P, O, R]) terminateWithError(err error) {
	if d.markTerminated() {
		d.markFailed()

		if d.primary != nil {
			d.primary.Cancel()
		}

		if d.other != nil {
			d.other.Cancel()
		}

		d.subscriber.OnError(err)
	}
}

// Upstreams implements graph.MultiUpstream: the combiner has two logical
// predecessors, the primary and the "other" source (SPEC_FULL.md §4.8.1).
func (d *combinerSubscription[P, O, R]) Upstreams() []any {
	return []any{d.primary, d.other}
}

func (d *combinerSubscription[P, O, R]) terminateWithComplete() {
	if d.markTerminated() {
		if d.other != nil {
			d.other.Cancel()
		}

		d.subscriber.OnComplete()
	}
}

// onPrimaryNext implements the per-value combine-or-drop-and-top-up rule
// (spec §4.6).
func (d *combinerSubscription[P, O, R]) onPrimaryNext(value P) {
	if d.isTerminated() {
		return
	}

	other := d.latest.Load()
	if other == nil {
		if d.primary != nil {
			d.primary.Request(1)
		}

		return
	}

	result, err := runCombine(d.combine, value, *other)
	if err != nil {
		d.terminateWithError(err)
		return
	}

	d.subscriber.OnNext(result)
}

func runCombine[P, O, R any](f func(P, O) (R, error), p P, o O) (result R, err error) {
	if cbErr := runUserCode(func() error {
		var innerErr error
		result, innerErr = f(p, o)

		return innerErr
	}); cbErr != nil {
		var zero R
		return zero, cbErr
	}

	if isNullValue(result) {
		var zero R
		return zero, newProtocolError(ErrNullCombinerResult)
	}

	return result, nil
}

// combinerPrimarySubscriber wires the primary source's signals into the
// driver: next combines-or-drops, error/complete terminate the whole stream.
type combinerPrimarySubscriber[P, O, R any] struct {
	driver *combinerSubscription[P, O, R]
}

var _ Subscriber[int] = (*combinerPrimarySubscriber[int, int, int])(nil)

func (s *combinerPrimarySubscriber[P, O, R]) OnSubscribe(sub Subscription) {
	s.driver.primary = sub

	if n := s.driver.demand.load(); n > 0 {
		sub.Request(n)
	}
}

func (s *combinerPrimarySubscriber[P, O, R]) OnNext(value P) { s.driver.onPrimaryNext(value) }
func (s *combinerPrimarySubscriber[P, O, R]) OnError(err error) {
	s.driver.terminateWithError(err)
}
func (s *combinerPrimarySubscriber[P, O, R]) OnComplete() { s.driver.terminateWithComplete() }

// combinerOtherSubscriber wires the "other" source's signals: only next
// updates the latest slot. Error propagates; completion is ignored (spec
// §4.6).
type combinerOtherSubscriber[P, O, R any] struct {
	driver *combinerSubscription[P, O, R]
}

var _ Subscriber[int] = (*combinerOtherSubscriber[int, int, int])(nil)

func (s *combinerOtherSubscriber[P, O, R]) OnSubscribe(sub Subscription) {
	s.driver.other = sub
	sub.Request(Unbounded)
}

func (s *combinerOtherSubscriber[P, O, R]) OnNext(value O) {
	v := value
	s.driver.latest.Store(&v)
}

func (s *combinerOtherSubscriber[P, O, R]) OnError(err error) {
	s.driver.terminateWithError(err)
}

func (s *combinerOtherSubscriber[P, O, R]) OnComplete() {}
