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

import "time"

// FromTimer builds a Publisher that, after delay, delivers a single
// OnNext(0) followed by OnComplete (spec §4.4). Racing cancellation after
// the timer has fired but before delivery suppresses delivery entirely.
//
// The reference behavior resolved for the Open Question in spec §4.4 is
// implemented here: the value is delivered on fire regardless of
// accumulated demand; if no demand was ever requested, a ProtocolError
// wrapping ErrNoDemand is delivered instead of the value (see the Open
// Question decisions in DESIGN.md).
func FromTimer(timer Timer, delay time.Duration) Publisher[int] {
	return PublisherFunc[int](func(sub Subscriber[int]) {
		driver := &timerSingleSubscription{subscriber: sub, timer: timer, delay: delay}
		driver.cancelTask = timer.AfterFunc(delay, driver.fire)
		sub.OnSubscribe(driver)
	})
}

type timerSingleSubscription struct {
	subscriptionCore

	subscriber Subscriber[int]
	timer      Timer
	delay      time.Duration

	cancelTask func()
}

var _ Subscription = (*timerSingleSubscription)(nil)

// Request implements Subscription. The task is already registered at
// subscribe time (spec §4.4); Request only ever adds to the demand counter,
// which the fire callback re-reads to decide whether demand existed.
func (d *timerSingleSubscription) Request(n int64) {
	d.requestAndDrive(n, d.terminateWithError, func() {})
}

// Cancel implements Subscription; de-registers the pending task, if any.
func (d *timerSingleSubscription) Cancel() {
	d.cancel()

	if d.cancelTask != nil {
		d.cancelTask()
	}
}

func (d *timerSingleSubscription) fire() {
	if d.isCancelled() {
		return
	}

	if d.demand.load() == 0 {
		d.terminateWithError(newProtocolError(ErrNoDemand))
		return
	}

	d.demand.produced(1)

	if d.isCancelled() {
		reportDroppedNext(0)
		return
	}

	d.subscriber.OnNext(0)

	if d.isCancelled() {
		return
	}

	d.terminateWithComplete()
}

func (d *timerSingleSubscription) terminateWithError(err error) {
	if d.markTerminated() {
		d.markFailed()
		d.subscriber.OnError(err)
	}
}

func (d *timerSingleSubscription) terminateWithComplete() {
	if d.markTerminated() {
		d.subscriber.OnComplete()
	}
}

// Period implements graph.Timeable: a single-shot timer has no repeating
// period (SPEC_FULL.md §4.8.1).
func (d *timerSingleSubscription) Period() int64 {
	return 0
}
