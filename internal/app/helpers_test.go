package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rspctl/rsp/internal/adapters/fake"
	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/pkg/log"
)

// mockLogger records every entry for assertions.
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields []log.Field
}

func (m *mockLogger) record(level, msg string, fields []log.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level, msg, fields})
}

func (m *mockLogger) Debug(msg string, fields ...log.Field) { m.record("debug", msg, fields) }
func (m *mockLogger) Info(msg string, fields ...log.Field)  { m.record("info", msg, fields) }
func (m *mockLogger) Warn(msg string, fields ...log.Field)  { m.record("warn", msg, fields) }
func (m *mockLogger) Error(msg string, fields ...log.Field) { m.record("error", msg, fields) }

func (m *mockLogger) has(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

var fastTiming = TaskTiming{
	Monitor:   5 * time.Millisecond,
	Settle:    5 * time.Millisecond,
	Heartbeat: 5 * time.Millisecond,
}

func fastConfig() SupervisorConfig {
	cfg := DefaultSupervisorConfig()
	cfg.ReconcileInterval = 10 * time.Millisecond
	cfg.CommandInterval = 5 * time.Millisecond
	cfg.PublishInterval = 5 * time.Millisecond
	cfg.Task = fastTiming
	return cfg
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// startTask runs a task for id in the background. The returned channel
// closes when Run returns.
func startTask(t *testing.T, ctx context.Context, p *fake.Provider, id string, logger log.Logger) (*Task, <-chan struct{}) {
	t.Helper()
	entity := domain.NewEntity(domain.EntityInfo{ID: id, Name: id})
	task := NewTask(entity, p, NewLiveTunables(DefaultTunables()), fastTiming, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		task.Run(ctx)
	}()
	return task, done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not return")
	}
}
