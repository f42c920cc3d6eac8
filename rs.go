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

// Package rs implements the core of a Reactive Streams runtime: the
// Publisher/Subscriber/Subscription contract under bounded demand, plus the
// source operators that exercise the hard cases of that contract.
//
// The broad operator library (map, filter, zip, merge...), schedulers and
// timer-wheel implementations, and JSON introspection of a running graph are
// deliberately out of scope for this package — see the rs/graph subpackage
// for the latter.
package rs

import (
	"context"
	"fmt"
	"log"
)

var (
	// By default, the package ignores unhandled errors and dropped signals.
	// You can change this behavior by setting the following variables to
	// your own error handling functions.
	//
	// Example:
	//
	// 	rs.OnUnhandledError = func(ctx context.Context, err error) {
	// 		slog.Error(fmt.Sprintf("unhandled error: %s\n", err.Error()))
	// 	}
	//
	// 	rs.OnDroppedSignal = func(ctx context.Context, signal fmt.Stringer) {
	// 		slog.Warn(fmt.Sprintf("dropped signal: %s\n", signal.String()))
	// 	}
	//
	// Note: `OnUnhandledError` and `OnDroppedSignal` are called synchronously
	// from the goroutine that emits the error or the signal. A slow callback
	// will slow down the whole pipeline.

	// OnUnhandledError is called when a non-fatal panic is recovered outside
	// of any subscriber's OnError (for instance, on a timer callback
	// goroutine); fatal runtime errors are re-panicked instead.
	OnUnhandledError = IgnoreOnUnhandledError
	// OnDroppedSignal is called when a signal is produced after a
	// subscription has already terminated or been cancelled.
	OnDroppedSignal = IgnoreOnDroppedSignal
)

// IgnoreOnUnhandledError is the default implementation of OnUnhandledError.
func IgnoreOnUnhandledError(ctx context.Context, err error) {}

// IgnoreOnDroppedSignal is the default implementation of OnDroppedSignal.
func IgnoreOnDroppedSignal(ctx context.Context, signal fmt.Stringer) {}

// DefaultOnUnhandledError is a ready-to-use implementation of
// OnUnhandledError that logs via the standard library logger.
func DefaultOnUnhandledError(ctx context.Context, err error) {
	if err != nil {
		// bearer:disable go_lang_logger_leak
		log.Printf("rs: unhandled error: %s\n", err.Error())
	}
}

var _ fmt.Stringer = (*Signal[int])(nil) // see below

// DefaultOnDroppedSignal is a ready-to-use implementation of
// OnDroppedSignal that logs via the standard library logger.
//
// Since a generic callback cannot be assigned to a package-level variable,
// OnDroppedSignal takes a fmt.Stringer instead of a Signal[T any].
func DefaultOnDroppedSignal(ctx context.Context, signal fmt.Stringer) {
	// bearer:disable go_lang_logger_leak
	log.Printf("rs: dropped signal: %s\n", signal.String())
}

// reportDroppedNext notifies OnDroppedSignal of a value that was pulled (or
// computed) but could not be delivered because the subscription was
// cancelled or already terminated in the interim.
func reportDroppedNext[T any](value T) {
	OnDroppedSignal(context.Background(), NewSignalNext(value))
}
