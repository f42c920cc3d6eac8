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
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverValueToError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "string value", input: "boom", expected: "unexpected panic value: boom"},
		{name: "error value", input: errors.New("boom"), expected: "boom"},
		{name: "int value", input: 42, expected: "unexpected panic value: 42"},
		{name: "nil value", input: nil, expected: "unexpected panic value: <nil>"},
	}

	for _, tt := range tests {
		ttt := tt
		t.Run(ttt.name, func(t *testing.T) {
			t.Parallel()
			is := assert.New(t)
			is.Equal(ttt.expected, recoverValueToError(ttt.input).Error())
		})
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.False(isFatal(errors.New("ordinary")))
	is.False(isFatal(ErrNullNext))

	var nilMap map[string]int

	func() {
		defer func() {
			r := recover()
			is.NotNil(r)
			is.True(isFatal(recoverValueToError(r)))
		}()

		nilMap["x"] = 1 //nolint:staticcheck
	}()
}

func TestRunUserCode(t *testing.T) {
	t.Parallel()

	t.Run("returns nil on success", func(t *testing.T) {
		t.Parallel()
		is := assert.New(t)

		err := runUserCode(func() error { return nil })
		is.NoError(err)
	})

	t.Run("wraps a returned error as UserError", func(t *testing.T) {
		t.Parallel()
		is := assert.New(t)

		cause := errors.New("boom")
		err := runUserCode(func() error { return cause })

		var userErr *UserError
		is.ErrorAs(err, &userErr)
		is.Equal(cause, userErr.Cause)
	})

	t.Run("wraps a panic as UserError", func(t *testing.T) {
		t.Parallel()
		is := assert.New(t)

		err := runUserCode(func() error {
			panic("boom")
		})

		var userErr *UserError
		is.ErrorAs(err, &userErr)
	})

	t.Run("re-panics fatal runtime errors", func(t *testing.T) {
		t.Parallel()
		is := assert.New(t)

		defer func() {
			r := recover()
			is.NotNil(r)
			var runtimeErr runtime.Error
			is.ErrorAs(recoverValueToError(r), &runtimeErr)
		}()

		_ = runUserCode(func() error {
			var nilSlice []int
			_ = nilSlice[5] //nolint:staticcheck

			return nil
		})
	})
}

func TestRecoverUnhandledError(t *testing.T) {
	t.Parallel()

	t.Run("callback panics", func(t *testing.T) {
		t.Parallel()
		is := assert.New(t)

		var captured error

		prev := OnUnhandledError
		OnUnhandledError = func(ctx context.Context, err error) { captured = err }

		defer func() { OnUnhandledError = prev }()

		is.NotPanics(func() {
			recoverUnhandledError(func() {
				panic("test panic")
			})
		})
		is.Error(captured)
	})

	t.Run("callback doesn't panic", func(t *testing.T) {
		t.Parallel()
		is := assert.New(t)

		called := false
		recoverUnhandledError(func() { called = true })
		is.True(called)
	})
}

func TestProtocolAndUserErrorMessages(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	pe := newProtocolError(ErrNonPositiveRequest)
	is.Equal("rs: protocol error: "+ErrNonPositiveRequest.Error(), pe.Error())
	is.ErrorIs(pe, ErrNonPositiveRequest)

	ue := newUserError(errors.New("forced failure"))
	is.Equal("rs: user error: forced failure", ue.Error())
}
