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

package streamtest

import (
	"errors"
	"testing"

	"github.com/samber/lo"

	"github.com/rsgo/rs"
)

var _ AssertSpec[int] = (*assertImpl[int])(nil)

type expectationKind uint8

const (
	expectNext expectationKind = iota
	expectError
	expectComplete
)

type expectation[T any] struct {
	kind       expectationKind
	value      T
	err        error
	msgAndArgs []any
}

type assertImpl[T any] struct {
	t            *testing.T
	expectations []expectation[T]
	source       rs.Publisher[T]
	requested    int64
}

// Assert creates a new AssertSpec for t.
func Assert[T any](t *testing.T) AssertSpec[T] { //nolint:thelper
	return &assertImpl[T]{t: t, requested: rs.Unbounded}
}

func (a *assertImpl[T]) popExpectation() (expectation[T], bool) {
	if len(a.expectations) == 0 {
		return expectation[T]{}, false
	}

	e := a.expectations[0]
	a.expectations = a.expectations[1:]

	return e, true
}

func (a *assertImpl[T]) hasTerminalExpectation() bool {
	_, ok := lo.Find(a.expectations, func(e expectation[T]) bool {
		return e.kind == expectError || e.kind == expectComplete
	})

	return ok
}

func (a *assertImpl[T]) fail(msgAndArgs []any, format string, args ...any) {
	a.t.Helper()

	if len(msgAndArgs) > 0 {
		a.t.Errorf(msgAndArgs[0].(string), msgAndArgs[1:]...) //nolint:errcheck,forcetypeassert
		return
	}

	a.t.Errorf(format, args...)
}

func (a *assertImpl[T]) Source(source rs.Publisher[T]) AssertSpec[T] {
	a.source = source
	return a
}

func (a *assertImpl[T]) Request(n int64) AssertSpec[T] {
	a.requested = n
	return a
}

func (a *assertImpl[T]) ExpectNext(value T, msgAndArgs ...any) AssertSpec[T] {
	a.t.Helper()

	a.expectations = append(a.expectations, expectation[T]{kind: expectNext, value: value, msgAndArgs: msgAndArgs})

	return a
}

func (a *assertImpl[T]) ExpectNextSeq(values ...T) AssertSpec[T] {
	a.t.Helper()

	for _, v := range values {
		a.expectations = append(a.expectations, expectation[T]{kind: expectNext, value: v})
	}

	return a
}

func (a *assertImpl[T]) ExpectError(err error, msgAndArgs ...any) AssertSpec[T] {
	a.t.Helper()

	if a.hasTerminalExpectation() {
		a.t.Fatal("cannot have multiple error or completion expectations")
	}

	a.expectations = append(a.expectations, expectation[T]{kind: expectError, err: err, msgAndArgs: msgAndArgs})

	return a
}

func (a *assertImpl[T]) ExpectComplete(msgAndArgs ...any) AssertSpec[T] {
	a.t.Helper()

	if a.hasTerminalExpectation() {
		a.t.Fatal("cannot have multiple error or completion expectations")
	}

	a.expectations = append(a.expectations, expectation[T]{kind: expectComplete, msgAndArgs: msgAndArgs})

	return a
}

func (a *assertImpl[T]) Verify() {
	a.t.Helper()

	requested := a.requested

	a.source.Subscribe(rs.FuncSubscriber[T]{
		OnSubscribeFunc: func(sub rs.Subscription) {
			sub.Request(requested)
		},
		OnNextFunc: func(value T) {
			e, ok := a.popExpectation()
			if !ok {
				a.fail(nil, "unexpected next(%v): no more expectations queued", value)
				return
			}

			if e.kind != expectNext {
				a.fail(e.msgAndArgs, "expected %v signal, got next(%v)", e.kind, value)
				return
			}

			if any(e.value) != any(value) {
				a.fail(e.msgAndArgs, "expected next(%v), got next(%v)", e.value, value)
			}
		},
		OnErrorFunc: func(err error) {
			e, ok := a.popExpectation()
			if !ok {
				a.fail(nil, "unexpected error(%v): no more expectations queued", err)
				return
			}

			if e.kind != expectError {
				a.fail(e.msgAndArgs, "expected %v signal, got error(%v)", e.kind, err)
				return
			}

			if e.err != nil && !errors.Is(err, e.err) {
				a.fail(e.msgAndArgs, "expected error matching %v, got %v", e.err, err)
			}
		},
		OnCompleteFunc: func() {
			e, ok := a.popExpectation()
			if !ok {
				a.fail(nil, "unexpected complete: no more expectations queued")
				return
			}

			if e.kind != expectComplete {
				a.fail(e.msgAndArgs, "expected %v signal, got complete", e.kind)
			}
		},
	})

	if len(a.expectations) > 0 {
		a.t.Errorf("%d expectation(s) never observed", len(a.expectations))
	}
}
