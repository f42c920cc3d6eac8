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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type noopSubscription struct {
	requested int64
	cancelled bool
}

func (s *noopSubscription) Request(n int64) { s.requested += n }
func (s *noopSubscription) Cancel()         { s.cancelled = true }

func TestFuncSubscriberNilFields(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	sub := FuncSubscriber[int]{}

	is.NotPanics(func() {
		sub.OnSubscribe(&noopSubscription{})
		sub.OnNext(1)
		sub.OnError(errors.New("boom"))
		sub.OnComplete()
	})
}

func TestFuncSubscriberDispatches(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var (
		gotSub       Subscription
		gotNext      int
		gotErr       error
		gotCompleted bool
	)

	sub := FuncSubscriber[int]{
		OnSubscribeFunc: func(s Subscription) { gotSub = s },
		OnNextFunc:      func(v int) { gotNext = v },
		OnErrorFunc:     func(err error) { gotErr = err },
		OnCompleteFunc:  func() { gotCompleted = true },
	}

	s := &noopSubscription{}
	boom := errors.New("boom")

	sub.OnSubscribe(s)
	sub.OnNext(42)
	sub.OnError(boom)
	sub.OnComplete()

	is.Equal(Subscription(s), gotSub)
	is.Equal(42, gotNext)
	is.Equal(boom, gotErr)
	is.True(gotCompleted)
}

func TestRequestUnboundedAndRequestNone(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := &noopSubscription{}

	RequestNone(s)
	is.Equal(int64(0), s.requested)

	RequestUnbounded(s)
	is.Equal(Unbounded, s.requested)
}

func TestCollectingSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	c := &CollectingSubscriber[int]{}
	s := &noopSubscription{}

	c.OnSubscribe(s)
	is.Equal(Unbounded, s.requested)
	is.Equal(Subscription(s), c.Subscription())

	c.OnNext(1)
	c.OnNext(2)
	c.OnComplete()

	is.Equal([]int{1, 2}, c.Values)
	is.True(c.Completed)
	is.Nil(c.Err)
}

func TestCollectingSubscriberError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	c := &CollectingSubscriber[int]{}
	boom := errors.New("boom")

	c.OnSubscribe(&noopSubscription{})
	c.OnNext(1)
	c.OnError(boom)

	is.Equal([]int{1}, c.Values)
	is.Equal(boom, c.Err)
	is.False(c.Completed)
}

func TestPublisherFunc(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	called := false
	p := PublisherFunc[int](func(sub Subscriber[int]) {
		called = true
		sub.OnComplete()
	})

	c := &CollectingSubscriber[int]{}
	p.Subscribe(c)

	is.True(called)
	is.True(c.Completed)
}
