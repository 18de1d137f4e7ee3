// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rolfedh/adt-core/internal/module"
)

// stepClock is a Clock test double: each call to Now advances by one
// second from a fixed base, giving deterministic, strictly increasing
// timestamps without depending on wall-clock time.
type stepClock struct {
	mu   sync.Mutex
	next time.Time
}

func newStepClock() *stepClock {
	return &stepClock{next: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

// scriptedModule is a module.Module test double whose Initialize/Execute
// behavior is controlled per-test: it can fail N times before succeeding,
// fail permanently, or panic.
type scriptedModule struct {
	name              string
	deps              []string
	initErr           error
	failuresRemaining int
	panicOnExecute    bool
	resultData        map[string]any

	mu           sync.Mutex
	executeCalls int
	initCalls    int
}

func (m *scriptedModule) Name() string                       { return m.name }
func (m *scriptedModule) Version() string                    { return "0.1.0" }
func (m *scriptedModule) Dependencies() []string             { return m.deps }
func (m *scriptedModule) ReleaseStatus() module.ReleaseStatus { return module.GA }

func (m *scriptedModule) Initialize(context.Context, map[string]any) error {
	m.mu.Lock()
	m.initCalls++
	m.mu.Unlock()
	return m.initErr
}

func (m *scriptedModule) Execute(ctx context.Context, execCtx module.Context) (module.Result, error) {
	m.mu.Lock()
	m.executeCalls++
	m.mu.Unlock()

	if m.panicOnExecute {
		panic("simulated module panic")
	}

	if m.failuresRemaining > 0 {
		m.failuresRemaining--
		return module.Result{Status: module.StatusError, ErrorMessage: fmt.Sprintf("%s: transient failure", m.name)}, nil
	}

	return module.Result{
		Status:         module.StatusSuccess,
		FilesProcessed: len(execCtx.Files),
		Data:           m.resultData,
	}, nil
}

func (m *scriptedModule) Cleanup(context.Context) error { return nil }
