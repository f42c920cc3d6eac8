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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestIgnoreOnUnhandledError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.NotPanics(func() {
		IgnoreOnUnhandledError(context.Background(), errors.New("boom"))
	})
}

func TestIgnoreOnDroppedSignal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.NotPanics(func() {
		IgnoreOnDroppedSignal(context.Background(), NewSignalComplete[int]())
	})
}

func TestDefaultOnUnhandledError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.NotPanics(func() {
		DefaultOnUnhandledError(context.Background(), errors.New("boom"))
		DefaultOnUnhandledError(context.Background(), nil)
	})
}

func TestDefaultOnDroppedSignal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.NotPanics(func() {
		DefaultOnDroppedSignal(context.Background(), NewSignalNext(1))
	})
}
