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

// iteratorDrainBudget bounds how many elements the slow path emits between
// two subtractions from the demand counter. The emission lease is kept
// across budgets for as long as demand remains, so this only batches the
// produced bookkeeping; it is not part of the wire contract.
const iteratorDrainBudget = 256

// FromIterator adapts a synchronous Iterator into a Publisher (spec §4.3).
// Subscribe probes the iterator once, synchronously: an empty iterator
// completes the subscriber without ever handing out a Subscription; a
// non-empty one hands out a Subscription whose Request implementation
// chooses, on the very first successful request, between two emission
// strategies:
//
//   - fast path, when the first Request asks for Unbounded: the driver
//     drains the entire iterator in one pass, ignoring the demand counter;
//   - slow path, otherwise: the driver emits exactly as many values as have
//     been requested, re-reading demand after each emission, and probes
//     HasNext after each emission so that it completes as soon as the
//     iterator is exhausted, without waiting for further demand.
//
// A concurrent Request(Unbounded) arriving while the slow path is already
// draining is not a path switch: demand.produced on an already-Unbounded
// counter is a no-op that keeps returning Unbounded, so the slow-path loop
// simply never reaches zero again and drains the rest of the iterator as if
// it had started on the fast path.
func FromIterator[T any](it Iterator[T]) Publisher[T] {
	return PublisherFunc[T](func(sub Subscriber[T]) {
		ok, err := runIteratorHasNext(it)
		if err != nil {
			sub.OnError(err)
			return
		}

		if !ok {
			sub.OnComplete()
			return
		}

		driver := &iteratorSubscription[T]{subscriber: sub, it: it}
		driver.lookahead = &fusionLookahead[T]{
			hasNext: func() (bool, error) { return runIteratorHasNext(driver.it) },
			next:    func() (T, error) { return runIteratorNext(driver.it) },
			onError: driver.terminateWithError,
		}

		sub.OnSubscribe(driver)
	})
}

// runIteratorHasNext calls it.HasNext under the shared panic-classification
// contract (spec §4.2), so every caller along the fast path, slow path, and
// fusion path reports fatal/user errors identically.
func runIteratorHasNext[T any](it Iterator[T]) (bool, error) {
	var ok bool

	if err := runUserCode(func() error {
		var innerErr error
		ok, innerErr = it.HasNext()

		return innerErr
	}); err != nil {
		return false, err
	}

	return ok, nil
}

// runIteratorNext calls it.Next under the same contract as
// runIteratorHasNext, additionally rejecting a null value as a
// ProtocolError (spec §4.3, §4.6).
func runIteratorNext[T any](it Iterator[T]) (T, error) {
	var value T

	if err := runUserCode(func() error {
		var innerErr error
		value, innerErr = it.Next()

		return innerErr
	}); err != nil {
		var zero T
		return zero, err
	}

	if isNullValue(value) {
		var zero T
		return zero, newProtocolError(ErrNullNext)
	}

	return value, nil
}

// iteratorSubscription is the Subscription (and QueueSubscription) driving a
// single subscriber's consumption of an Iterator (spec §4.3, §4.7, §9).
type iteratorSubscription[T any] struct {
	subscriptionCore

	subscriber Subscriber[T]
	it         Iterator[T]
	lookahead  *fusionLookahead[T]

	pathDecided atomic.Bool
	fastPath    bool
}

var (
	_ Subscription           = (*iteratorSubscription[int])(nil)
	_ QueueSubscription[int] = (*iteratorSubscription[int])(nil)
)

// Request implements Subscription.
func (d *iteratorSubscription[T]) Request(n int64) {
	d.requestAndDrive(n, d.terminateWithError, func() {
		if d.pathDecided.CompareAndSwap(false, true) {
			d.fastPath = n == Unbounded
		}

		if d.fastPath {
			d.driveFast()
		} else {
			d.driveSlow()
		}
	})
}

// Cancel implements Subscription.
func (d *iteratorSubscription[T]) Cancel() {
	d.cancel()
}

// terminateWithError delivers err through OnError exactly once, per the
// "at most one terminal signal" invariant (spec §3).
func (d *iteratorSubscription[T]) terminateWithError(err error) {
	if d.markTerminated() {
		d.markFailed()
		d.subscriber.OnError(err)
	}
}

// terminateWithComplete delivers OnComplete exactly once.
func (d *iteratorSubscription[T]) terminateWithComplete() {
	if d.markTerminated() {
		d.subscriber.OnComplete()
	}
}

// driveFast drains the iterator to exhaustion (or cancellation, or error),
// without consulting the demand counter: the subscriber has already asked
// for Unbounded.
func (d *iteratorSubscription[T]) driveFast() {
	for {
		if d.isCancelled() {
			return
		}

		ok, err := runIteratorHasNext(d.it)
		if err != nil {
			d.terminateWithError(err)
			return
		}

		if !ok {
			d.terminateWithComplete()
			return
		}

		value, err := runIteratorNext(d.it)
		if err != nil {
			d.terminateWithError(err)
			return
		}

		if d.isCancelled() {
			reportDroppedNext(value)
			return
		}

		d.subscriber.OnNext(value)
	}
}

// driveSlow emits exactly as much as has been requested, re-reading the
// demand counter at each budget boundary so a concurrently arriving Request
// is never lost (spec §3 "Emission lease", §4.3).
func (d *iteratorSubscription[T]) driveSlow() {
	for {
		emitted := int64(0)

		for emitted < iteratorDrainBudget {
			if d.isCancelled() {
				return
			}

			ok, err := runIteratorHasNext(d.it)
			if err != nil {
				d.terminateWithError(err)
				return
			}

			if !ok {
				d.terminateWithComplete()
				return
			}

			value, err := runIteratorNext(d.it)
			if err != nil {
				d.terminateWithError(err)
				return
			}

			if d.isCancelled() {
				reportDroppedNext(value)
				return
			}

			d.subscriber.OnNext(value)
			emitted++

			if d.isCancelled() {
				return
			}

			if more, err := runIteratorHasNext(d.it); err != nil {
				d.terminateWithError(err)
				return
			} else if !more {
				d.terminateWithComplete()
				return
			}

			if d.demand.load() <= emitted && d.demand.load() != Unbounded {
				break
			}
		}

		if d.demand.produced(emitted) == 0 {
			return
		}
	}
}

// IsEmpty implements QueueSubscription.
func (d *iteratorSubscription[T]) IsEmpty() bool { return d.lookahead.IsEmpty() }

// Peek implements QueueSubscription.
func (d *iteratorSubscription[T]) Peek() (T, bool) { return d.lookahead.Peek() }

// Poll implements QueueSubscription.
func (d *iteratorSubscription[T]) Poll() (T, bool) { return d.lookahead.Poll() }

// Drop implements QueueSubscription.
func (d *iteratorSubscription[T]) Drop() { d.lookahead.Drop() }

// Clear implements QueueSubscription.
func (d *iteratorSubscription[T]) Clear() { d.lookahead.Clear() }

// Size implements QueueSubscription.
func (d *iteratorSubscription[T]) Size() int { return d.lookahead.Size() }
