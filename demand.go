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

import (
	"math"
	"sync/atomic"
)

// Unbounded is the sentinel "no limit" demand value (spec §3, §4.1). Once a
// demand counter reaches Unbounded it is sticky: further additions do not
// move it, and the slow-path subtraction arithmetic in produced is bypassed.
const Unbounded int64 = math.MaxInt64

// demand is the atomic, saturating demand counter shared between a
// subscriber's Request calls and the driver's emission loop (spec §4.1). The
// zero value is a valid, empty demand counter.
//
// demand has no mutex: every method is a single atomic operation, which is
// what makes the emission-lease pattern in subscription.go lock-free (spec
// §9 "Reentrant request via emission lease").
type demand struct {
	n atomic.Int64
}

// validateRequest reports whether n is a legal argument to Request: n > 0 is
// ok, everything else is a protocol violation (spec §3, §4.1).
func validateRequest(n int64) error {
	if n <= 0 {
		return newProtocolError(ErrNonPositiveRequest)
	}

	return nil
}

// add saturates n into the counter and returns the pre-addition value, so
// the caller can tell whether it just transitted the counter from zero to
// positive (and therefore acquired the emission lease, spec §3 "Emission
// lease").
func (d *demand) add(n int64) int64 {
	for {
		prev := d.n.Load()
		if prev == Unbounded {
			return Unbounded
		}

		next := prev + n
		if next < prev || next > Unbounded { // overflow, or crossed the sentinel
			next = Unbounded
		}

		if d.n.CompareAndSwap(prev, next) {
			return prev
		}
	}
}

// produced subtracts e from the counter, unless the counter is Unbounded (in
// which case it is a no-op), and returns the post-subtraction value (spec
// §4.1).
func (d *demand) produced(e int64) int64 {
	for {
		prev := d.n.Load()
		if prev == Unbounded {
			return Unbounded
		}

		next := prev - e
		if next < 0 {
			next = 0
		}

		if d.n.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// load reads the current demand without mutating it.
func (d *demand) load() int64 {
	return d.n.Load()
}
