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

// FusionState is the lookahead state of a QueueSubscription (spec §4.7).
type FusionState uint8

const (
	// FusionCallHasNext means the next IsEmpty call must probe the
	// upstream iterator before anything can be answered.
	FusionCallHasNext FusionState = iota
	// FusionHasNextNoValue means the iterator reported more elements exist,
	// but the value itself has not been pulled yet.
	FusionHasNextNoValue
	// FusionHasNextHasValue means a value has been pulled and is latched,
	// waiting to be returned by Peek or Poll.
	FusionHasNextHasValue
	// FusionNoNext means the iterator is exhausted.
	FusionNoNext
)

// QueueSubscription is the optional synchronous pull contract a source may
// additionally expose alongside the standard Subscription, so that a
// downstream operator recognizing the capability can bypass OnNext
// signalling entirely and pull values directly (spec §4.7, §9 "Fusion
// Protocol").
//
// A downstream operator that type-asserts a Subscription to a
// QueueSubscription and elects to use it must still honor Cancel/Request on
// the embedded Subscription, and must revert to the standard OnNext path the
// moment Poll returns ok==false (whether because the source is empty or
// because it errored/completed in the interim).
type QueueSubscription[T any] interface {
	Subscription

	// IsEmpty reports whether a call to Poll would currently return a
	// value. The first call from FusionCallHasNext probes the upstream
	// iterator and latches the result.
	IsEmpty() bool
	// Peek returns the latched lookahead value without consuming it,
	// pulling it from the iterator first if it was only known to exist
	// (FusionHasNextNoValue). ok is false if the source is exhausted.
	Peek() (value T, ok bool)
	// Poll is like Peek, but consumes the value, moving the lookahead state
	// to FusionCallHasNext.
	Poll() (value T, ok bool)
	// Drop discards the latched value without returning it, moving to
	// FusionCallHasNext.
	Drop()
	// Clear resets the lookahead to the empty/unknown state. For sources
	// whose backing iterator owns all cursor state, this may be a no-op.
	Clear()
	// Size returns 1 if a value is latched or probably available, 0
	// otherwise. It is not a true count of remaining elements.
	Size() int
}

// fusionLookahead implements the IsEmpty/Peek/Poll/Drop/Clear/Size state
// machine described in spec §4.7, parameterized over however the embedding
// driver pulls from its iterator. It is not safe for concurrent use: the
// fusion path is only ever driven by the single downstream operator that
// elected to use it, which by construction already holds the emission
// lease.
type fusionLookahead[T any] struct {
	state   FusionState
	value   T
	hasNext func() (bool, error)
	next    func() (T, error)
	// onError is called with an already-classified error (*ProtocolError or
	// *UserError); fusionLookahead performs no classification of its own.
	onError func(error)
}

func (f *fusionLookahead[T]) IsEmpty() bool {
	if f.state == FusionCallHasNext {
		ok, err := f.hasNext()
		if err != nil {
			f.onError(err)
			f.state = FusionNoNext

			return true
		}

		if ok {
			f.state = FusionHasNextNoValue
		} else {
			f.state = FusionNoNext
		}
	}

	return f.state == FusionNoNext
}

func (f *fusionLookahead[T]) Peek() (T, bool) {
	if f.IsEmpty() {
		var zero T
		return zero, false
	}

	if f.state == FusionHasNextNoValue {
		v, err := f.next()
		if err != nil {
			f.onError(err)
			f.state = FusionNoNext

			var zero T

			return zero, false
		}

		f.value = v
		f.state = FusionHasNextHasValue
	}

	return f.value, true
}

func (f *fusionLookahead[T]) Poll() (T, bool) {
	v, ok := f.Peek()
	if ok {
		f.state = FusionCallHasNext
	}

	return v, ok
}

func (f *fusionLookahead[T]) Drop() {
	f.state = FusionCallHasNext
}

func (f *fusionLookahead[T]) Clear() {
	f.state = FusionCallHasNext
}

func (f *fusionLookahead[T]) Size() int {
	if f.state == FusionHasNextNoValue || f.state == FusionHasNextHasValue {
		return 1
	}

	return 0
}
