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

func ExampleFromIterator() {
	FromIterator[int](FromSlice(1, 2, 3)).Subscribe(FuncSubscriber[int]{
		OnSubscribeFunc: RequestUnbounded,
		OnNextFunc:      func(value int) { fmt.Println("next:", value) },
		OnCompleteFunc:  func() { fmt.Println("complete") },
	})
	// Output:
	// next: 1
	// next: 2
	// next: 3
	// complete
}

func ExampleFromIterator_backpressured() {
	var sub Subscription

	FromIterator[int](FromSlice(1, 2, 3)).Subscribe(FuncSubscriber[int]{
		OnSubscribeFunc: func(s Subscription) { sub = s },
		OnNextFunc:      func(value int) { fmt.Println("next:", value) },
		OnCompleteFunc:  func() { fmt.Println("complete") },
	})

	sub.Request(1)
	sub.Request(2)
	// Output:
	// next: 1
	// next: 2
	// next: 3
	// complete
}

func ExampleCollectingSubscriber() {
	c := &CollectingSubscriber[int]{}

	FromIterator[int](FromSlice(10, 20, 30)).Subscribe(c)

	fmt.Println(c.Values, c.Completed)
	// Output:
	// [10 20 30] true
}

func ExampleWithLatestFrom() {
	p := FromIterator[int](FromSlice(1, 2, 3))
	o := FromIterator[string](FromSlice("a"))

	c := &CollectingSubscriber[string]{}

	WithLatestFrom[int, string, string](p, o, func(p int, o string) (string, error) {
		return fmt.Sprintf("%d-%s", p, o), nil
	}).Subscribe(c)

	fmt.Println(c.Values, c.Completed)
	// Output:
	// [1-a 2-a 3-a] true
}
