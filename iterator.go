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

import "reflect"

// Iterator is the synchronous pull source driven by FromIterator (spec
// §4.3). HasNext may be called any number of times without side effects
// other than advancing internal lookahead; Next must only be called after a
// true result from HasNext.
type Iterator[T any] interface {
	HasNext() (bool, error)
	Next() (T, error)
}

// FromSlice builds an Iterator over a fixed slice of values, grounded on the
// teacher's Of/FromSlice constructors (operator_creation.go), reimplemented
// as an Iterator rather than as code that pushes straight into an Observer.
func FromSlice[T any](values ...T) Iterator[T] {
	return &sliceIterator[T]{values: values}
}

type sliceIterator[T any] struct {
	values []T
	cursor int
}

func (s *sliceIterator[T]) HasNext() (bool, error) {
	return s.cursor < len(s.values), nil
}

func (s *sliceIterator[T]) Next() (T, error) {
	v := s.values[s.cursor]
	s.cursor++

	return v, nil
}

// isNullValue reports whether v is the "null" sentinel spec §4.3 and §4.6
// talk about: for reference-kind T (pointer, interface, slice, map, channel,
// function) a nil value is a protocol violation; for value kinds there is no
// such sentinel, and isNullValue is always false. Plain reflect.Value
// inspection is used here because no library in this module's dependency
// set offers a generic "is this the nil value of T" check; go.mod's use of
// github.com/samber/lo is for panic-safe invocation and collection helpers,
// not reflection-based predicates.
func isNullValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
