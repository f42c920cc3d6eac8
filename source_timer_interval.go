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
	"sync/atomic"
	"time"
)

// FromTimerInterval builds a Publisher emitting an ascending counter,
// starting at 0, on a periodic schedule (spec §4.5). A negative initial
// delay means "same as period". There is no terminal completion: the
// stream only ever ends via Cancel or a missing-backpressure error.
//
// The interval source cannot buffer: if a tick fires while the subscriber
// has not requested enough to accept it, the driver delivers a
// ProtocolError wrapping ErrMissingBackpressure and stops.
func FromTimerInterval(timer Timer, initial, period time.Duration) Publisher[int64] {
	return PublisherFunc[int64](func(sub Subscriber[int64]) {
		driver := &timerIntervalSubscription{subscriber: sub, timer: timer, initial: initial, period: period}
		sub.OnSubscribe(driver)
	})
}

type timerIntervalSubscription struct {
	subscriptionCore

	subscriber Subscriber[int64]
	timer      Timer
	initial    time.Duration
	period     time.Duration

	started    atomic.Bool
	counter    atomic.Int64
	cancelTask func()
}

var _ Subscription = (*timerIntervalSubscription)(nil)

// Request implements Subscription; the periodic schedule is registered on
// the first call and never re-registered afterward.
func (d *timerIntervalSubscription) Request(n int64) {
	d.requestAndDrive(n, d.terminateWithError, func() {
		if d.started.CompareAndSwap(false, true) {
			d.cancelTask = d.timer.TickFunc(d.initial, d.period, d.tick)
		}
	})
}

// Cancel implements Subscription; stops further ticks. There is no terminal
// signal on cancellation (spec §4.5, §5).
func (d *timerIntervalSubscription) Cancel() {
	d.cancel()

	if d.cancelTask != nil {
		d.cancelTask()
	}
}

func (d *timerIntervalSubscription) tick() {
	if d.isCancelled() {
		return
	}

	if d.demand.load() == 0 {
		d.terminateWithError(newProtocolError(ErrMissingBackpressure))
		return
	}

	d.demand.produced(1)

	value := d.counter.Add(1) - 1

	d.subscriber.OnNext(value)
}

func (d *timerIntervalSubscription) terminateWithError(err error) {
	if d.markTerminated() {
		d.markFailed()

		if d.cancelTask != nil {
			d.cancelTask()
		}

		d.subscriber.OnError(err)
	}
}

// Period implements graph.Timeable.
func (d *timerIntervalSubscription) Period() int64 {
	return int64(d.period)
}
