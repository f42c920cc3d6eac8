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

// Package streamtest is a fluent assertion wrapper for testing a
// Publisher's signal sequence, adapted from the teacher's
// testing.AssertSpec ("inspired by Flux") to the request(n)-aware
// Subscriber contract: where the teacher's Verify subscribes and lets
// values push in unconditionally, Assert.Verify here drives its own
// Subscription, defaulting to unbounded demand unless Request is used to
// exercise a specific backpressure scenario.
package streamtest

import "github.com/rsgo/rs"

// AssertSpec asserts the behavior of a Publisher's signal sequence.
// Implementing it is optional; it exists to give a fluent API across
// different test scenarios, the same role the teacher's AssertSpec played
// for Observable.
type AssertSpec[T any] interface {
	// Source sets the Publisher under test.
	Source(source rs.Publisher[T]) AssertSpec[T]
	// Request overrides the demand Verify requests up front. Unused means
	// Unbounded.
	Request(n int64) AssertSpec[T]
	// ExpectNext expects the next signal to be OnNext(value).
	ExpectNext(value T, msgAndArgs ...any) AssertSpec[T]
	// ExpectNextSeq expects a run of consecutive OnNext signals.
	ExpectNextSeq(values ...T) AssertSpec[T]
	// ExpectError expects the next signal to be OnError(err), comparing
	// with errors.Is.
	ExpectError(err error, msgAndArgs ...any) AssertSpec[T]
	// ExpectComplete expects the next signal to be OnComplete.
	ExpectComplete(msgAndArgs ...any) AssertSpec[T]
	// Verify subscribes to the source and checks every queued expectation
	// against the signals actually observed, in order.
	Verify()
}
