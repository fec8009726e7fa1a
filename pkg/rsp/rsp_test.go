package rsp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rspctl/rsp/internal/adapters/fake"
	"github.com/rspctl/rsp/internal/domain"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.LogDir = "/tmp/rsp-test"
	cfg.ReconcileInterval = 5 * time.Millisecond
	cfg.MonitorInterval = 5 * time.Millisecond
	cfg.SettleInterval = 5 * time.Millisecond
	cfg.HeartbeatInterval = 5 * time.Millisecond
	cfg.CommandInterval = 5 * time.Millisecond
	cfg.PublishInterval = 5 * time.Millisecond
	return cfg
}

type eventRecorder struct {
	mu     sync.Mutex
	events []StateChangeEvent
}

func (r *eventRecorder) OnStateChange(e StateChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.events))
	for i, e := range r.events {
		out[i] = e.Current
	}
	return out
}

type recordingPlugin struct {
	name    string
	initErr error
	order   *[]string
	mu      *sync.Mutex
	cfg     PluginConfig
}

func (p *recordingPlugin) Name() string { return p.name }

func (p *recordingPlugin) Initialize(_ context.Context, cfg PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	*p.order = append(*p.order, "init:"+p.name)
	return p.initErr
}

func (p *recordingPlugin) Shutdown(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.order = append(*p.order, "shutdown:"+p.name)
	return nil
}

func waitStatus(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Status() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Status() = %v, want %v", c.Status(), want)
}

func TestController_StartStop(t *testing.T) {
	p := fake.NewProvider()
	p.Add("v1", "Alpha", fake.Ascending(1000, 5000))
	rec := &eventRecorder{}

	c, err := New(testConfig(), WithProvider(p), WithEventHandler(rec))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Status() != StateStopped {
		t.Fatalf("Status() = %v, want Stopped", c.Status())
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitStatus(t, c, StateRunning)

	if err := c.Start(context.Background()); !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}

	deadline := time.Now().Add(time.Second)
	for c.supervisor.Registry().Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if c.supervisor.Registry().Len() != 1 {
		t.Fatalf("registry len = %d, want 1", c.supervisor.Registry().Len())
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if c.Status() != StateStopped {
		t.Errorf("Status() = %v, want Stopped", c.Status())
	}
	select {
	case <-c.Done():
	default:
		t.Error("Done() not closed after Stop")
	}

	want := []State{StateStarting, StateRunning, StateStopping, StateStopped}
	got := rec.states()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if err := c.Stop(); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("Stop() when stopped error = %v, want ErrNotRunning", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if p.Closed() {
		t.Error("injected provider should not be closed")
	}
}

func TestController_CrashOnConnectionLost(t *testing.T) {
	p := fake.NewProvider()
	c, err := New(testConfig(), WithProvider(p))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	p.SetListError(domain.ErrConnectionLost)

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not stop on connection loss")
	}
	waitStatus(t, c, StateCrashed)

	if err := c.Stop(); !errors.Is(err, domain.ErrConnectionLost) {
		t.Errorf("Stop() error = %v, want ErrConnectionLost", err)
	}
	if c.Status() != StateStopped {
		t.Errorf("Status() = %v, want Stopped", c.Status())
	}
}

func TestController_Plugins(t *testing.T) {
	var mu sync.Mutex
	var order []string
	a := &recordingPlugin{name: "a", order: &order, mu: &mu}
	b := &recordingPlugin{name: "b", order: &order, mu: &mu}

	cfg := testConfig()
	cfg.ConfigPath = "/etc/rsp/config.toml"
	c, err := New(cfg, WithProvider(fake.NewProvider()), WithPlugin(a), WithPlugin(b))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"init:a", "init:b", "shutdown:b", "shutdown:a"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
	if a.cfg.ConfigPath != "/etc/rsp/config.toml" {
		t.Errorf("ConfigPath = %q", a.cfg.ConfigPath)
	}
	if a.cfg.Tunables == nil || a.cfg.Tunables.Load().MinAltitude != 40000 {
		t.Error("plugin should receive live tunables")
	}
}

func TestController_PluginInitFailure(t *testing.T) {
	var mu sync.Mutex
	var order []string
	boom := errors.New("boom")
	bad := &recordingPlugin{name: "bad", initErr: boom, order: &order, mu: &mu}

	c, err := New(testConfig(), WithProvider(fake.NewProvider()), WithPlugin(bad))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Start() error = %v, want boom", err)
	}
	if c.Status() != StateCrashed {
		t.Errorf("Status() = %v, want Crashed", c.Status())
	}
}

func TestController_TunablesAreLive(t *testing.T) {
	c, err := New(testConfig(), WithProvider(fake.NewProvider()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tun := c.Tunables().Load()
	tun.MinAltitude = 30000
	c.Tunables().Store(tun)

	if got := c.supervisor.Tunables().Load().MinAltitude; got != 30000 {
		t.Errorf("MinAltitude = %v, want 30000", got)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ReconcileInterval = 0
	if _, err := New(cfg, WithProvider(fake.NewProvider())); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestIsVersionCompatible(t *testing.T) {
	tests := []struct {
		version, min string
		want         bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.1.0", "1.0.0", true},
		{"1.0.1", "1.0.2", false},
		{"2.0.0", "1.9.9", true},
		{"0.9.0", "1.0.0", false},
	}
	for _, tt := range tests {
		if got := isVersionCompatible(tt.version, tt.min); got != tt.want {
			t.Errorf("isVersionCompatible(%q, %q) = %v, want %v", tt.version, tt.min, got, tt.want)
		}
	}
}
