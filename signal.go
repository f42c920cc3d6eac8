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

import "fmt"

// Kind represents the kind of a Signal: Next, Error, or Complete (spec §3).
type Kind uint8

// Kind constants.
const (
	KindNext Kind = iota
	KindError
	KindComplete
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "Next"
	case KindError:
		return "Error"
	case KindComplete:
		return "Complete"
	}

	panic("rs: unknown kind")
}

// Signal is one of next(value), complete, or error(cause) (spec §3). It is
// mostly used to describe a dropped or recorded delivery; the live delivery
// path calls OnNext/OnError/OnComplete directly rather than routing through
// a Signal value, to avoid allocating on the hot path.
type Signal[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

func (s Signal[T]) String() string {
	switch s.Kind {
	case KindNext:
		return fmt.Sprintf("Next(%+v)", s.Value)
	case KindError:
		if s.Err == nil {
			return "Error(nil)"
		}

		return fmt.Sprintf("Error(%s)", s.Err.Error())
	case KindComplete:
		return "Complete()"
	}

	panic("rs: unknown kind")
}

// NewSignalNext creates a Signal carrying a next(value).
func NewSignalNext[T any](value T) Signal[T] {
	return Signal[T]{Kind: KindNext, Value: value}
}

// NewSignalError creates a Signal carrying an error(cause).
func NewSignalError[T any](err error) Signal[T] {
	return Signal[T]{Kind: KindError, Err: err}
}

// NewSignalComplete creates a Signal carrying a complete.
func NewSignalComplete[T any]() Signal[T] {
	return Signal[T]{Kind: KindComplete}
}
