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
	"sync"
	"time"
)

// Timer is the external collaborator the timer-based drivers (spec §4.4,
// §4.5) register tasks with. The core never spawns a scheduler of its own;
// it only ever depends on this seam, so a test can substitute a virtual-time
// implementation without the driver code changing.
type Timer interface {
	// AfterFunc schedules cb to run once, after d. The returned cancel
	// function de-registers the task; calling it after cb has already
	// started running has no effect on that already-running call.
	AfterFunc(d time.Duration, cb func()) (cancel func())
	// TickFunc schedules cb to run repeatedly: first after initial (or
	// after period, if initial is negative, per spec §4.5), then every
	// period. The returned cancel function stops future ticks.
	TickFunc(initial, period time.Duration, cb func()) (cancel func())
}

// SystemTimer is the default Timer, grounded on the teacher's
// Timer/Interval/IntervalWithInitial constructors (operator_creation.go),
// adapted from pushing straight into an Observer to invoking a plain
// callback through the Timer seam.
type SystemTimer struct{}

var _ Timer = SystemTimer{}

// AfterFunc implements Timer using time.AfterFunc.
func (SystemTimer) AfterFunc(d time.Duration, cb func()) (cancel func()) {
	t := time.AfterFunc(d, func() {
		recoverUnhandledError(cb)
	})

	return func() { t.Stop() }
}

// TickFunc implements Timer using time.Timer for the initial delay and
// time.Ticker for the steady-state period, mirroring IntervalWithInitial's
// two-clock structure.
func (SystemTimer) TickFunc(initial, period time.Duration, cb func()) (cancel func()) {
	if initial < 0 {
		initial = period
	}

	done := make(chan struct{})
	closeOnce := sync.Once{}
	first := time.NewTimer(initial)

	go recoverUnhandledError(func() {
		select {
		case <-done:
			first.Stop()
			return
		case <-first.C:
		}

		cb()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				cb()
			}
		}
	})

	return func() {
		closeOnce.Do(func() { close(done) })
	}
}
