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
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/samber/lo"
)

// Well-known sentinel causes. Compare with errors.Is, not direct equality,
// since ProtocolError/UserError wrap them.
var (
	// ErrNonPositiveRequest is the cause of a ProtocolError raised when
	// Request(n) is called with n <= 0.
	ErrNonPositiveRequest = errors.New("rs: request amount must be > 0")
	// ErrNullNext is the cause of a ProtocolError raised when an upstream
	// iterator's Next reports a value but the value is nil (only possible
	// for a reference-kind T; see isNullValue).
	ErrNullNext = errors.New("rs: iterator produced a null value")
	// ErrNullCombinerResult is the cause of a ProtocolError raised when a
	// WithLatestFrom combiner function returns a null result.
	ErrNullCombinerResult = errors.New("rs: combiner produced a null value")
	// ErrMissingBackpressure is the cause of a ProtocolError raised by the
	// interval source when a tick fires and the subscriber has not
	// requested enough to accept it.
	ErrMissingBackpressure = errors.New("rs: missing backpressure")
	// ErrNoDemand is the cause of a ProtocolError raised by the single-shot
	// timer source when its task fires and no demand has ever been
	// requested (see the Open Question decisions in DESIGN.md).
	ErrNoDemand = errors.New("rs: value produced without demand")
)

// ProtocolError reports a violation of the Reactive Streams contract itself
// (as opposed to a failure in user code). It is always delivered to the
// subscriber via OnError and always terminates the subscription.
type ProtocolError struct {
	Cause error
}

func newProtocolError(cause error) *ProtocolError {
	return &ProtocolError{Cause: cause}
}

func (e *ProtocolError) Error() string {
	return "rs: protocol error: " + e.Cause.Error()
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// UserError wraps a panic or returned error originating from user-supplied
// code (an Iterator or a WithLatestFrom combiner function). It is
// delivered to the subscriber via OnError and terminates the subscription.
type UserError struct {
	Cause error
}

func newUserError(cause error) *UserError {
	return &UserError{Cause: cause}
}

func (e *UserError) Error() string {
	return "rs: user error: " + e.Cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// recoverValueToError normalizes a recover() value into an error.
func recoverValueToError(e any) error {
	if err, ok := e.(error); ok {
		return err
	}

	return fmt.Errorf("unexpected panic value: %v", e)
}

// isFatal reports whether err represents an unrecoverable runtime condition
// that must propagate out of the subscription frame unchanged rather than
// being delivered through OnError (spec §4.2, §7). Grounded on the teacher's
// panic-recovery boundary (observer.go: tryNext/tryError/tryComplete),
// generalized to distinguish runtime.Error from ordinary user errors.
func isFatal(err error) bool {
	var runtimeErr runtime.Error
	return errors.As(err, &runtimeErr)
}

// runUserCode executes cb, classifying any panic per spec §4.2/§7: fatal
// runtime errors are re-panicked unchanged, everything else becomes a
// *UserError and is returned instead of panicking further. A non-nil error
// returned by cb is wrapped as a *UserError as well.
func runUserCode(cb func() error) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			if cbErr := cb(); cbErr != nil {
				err = newUserError(cbErr)
			}

			return nil
		},
		func(e any) {
			cause := recoverValueToError(e)
			if isFatal(cause) {
				panic(e)
			}

			err = newUserError(cause)
		},
	)

	return err
}

// recoverUnhandledError runs cb, routing any panic that escapes to
// OnUnhandledError instead of crashing the goroutine that drives emission
// (timer callbacks in particular run on a goroutine nothing else supervises).
// Mirrors the teacher's recoverUnhandledError in errors.go.
func recoverUnhandledError(cb func()) {
	lo.TryCatchWithErrorValue(
		func() error {
			cb()
			return nil
		},
		func(e any) {
			err := recoverValueToError(e)
			if isFatal(err) {
				panic(e)
			}

			OnUnhandledError(context.Background(), err)
		},
	)
}
