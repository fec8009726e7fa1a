package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rspctl/rsp/internal/adapters/fake"
	"github.com/rspctl/rsp/internal/domain"
)

func TestTask_JettisonThenStagesOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := fake.NewProvider()
	p.Add("A", "Alpha", fake.Ascending(45000, 50))

	task, done := startTask(t, ctx, p, "A", &mockLogger{})
	waitFor(t, "Idle", func() bool { return task.State() == domain.StateIdle })

	if got := p.CountCalls(fake.OpTriggerAction, "A"); got != 1 {
		t.Errorf("module triggers = %d, want 1", got)
	}
	if got := p.CountCalls(fake.OpTriggerSeparation, "A"); got != 0 {
		t.Errorf("fallback separations = %d, want 0", got)
	}

	deployed := map[string]int{}
	for _, c := range p.Calls() {
		if c.Op == fake.OpSetDeployed {
			if !c.Deployed {
				t.Errorf("%s was retracted, want extended", c.Component)
			}
			deployed[c.Component]++
		}
	}
	for _, id := range []string{"solar-1", "antenna-1", "leg-1", "leg-2", "wheel-1"} {
		if deployed[id] != 1 {
			t.Errorf("%s toggled %d times, want 1", id, deployed[id])
		}
	}
	if deployed["solar-fixed"] != 0 {
		t.Error("fixed panel must not be toggled")
	}

	cancel()
	waitDone(t, done)
	if task.Entity().Active() {
		t.Error("entity should be inactive after Run returns")
	}
	if task.State() != domain.StateIdle {
		t.Errorf("cancellation should not fail the task, state = %v", task.State())
	}
}

func TestTask_WaitsOutsideJettisonWindow(t *testing.T) {
	tests := []struct {
		name string
		alt  float64
		q    float64
	}{
		{"too low", 30000, 50},
		{"too much pressure", 45000, 150},
		{"at pressure limit", 45000, 100},
		{"at altitude limit", 40000, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			p := fake.NewProvider()
			p.Add("A", "Alpha", fake.Ascending(tt.alt, tt.q))

			task, done := startTask(t, ctx, p, "A", &mockLogger{})
			time.Sleep(30 * time.Millisecond)
			cancel()
			waitDone(t, done)

			if len(p.Calls()) != 0 {
				t.Errorf("no trigger expected, got %+v", p.Calls())
			}
			if task.State() != domain.StateMonitoring {
				t.Errorf("state = %v, want Monitoring", task.State())
			}
		})
	}
}

func TestTask_FallsBackToDirectSeparation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := fake.Ascending(45000, 50)
	st.Fairings[0].Actions = nil
	p := fake.NewProvider()
	p.Add("A", "Alpha", st)

	task, done := startTask(t, ctx, p, "A", &mockLogger{})
	waitFor(t, "Idle", func() bool { return task.State() == domain.StateIdle })

	if got := p.CountCalls(fake.OpTriggerSeparation, "A"); got != 1 {
		t.Errorf("fallback separations = %d, want 1", got)
	}
	cancel()
	waitDone(t, done)
}

func TestTask_FailedEventsUseDirectSeparation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := fake.NewProvider()
	p.SetActionError("A", errors.New("event rejected"))
	p.Add("A", "Alpha", fake.Ascending(45000, 50))

	task, done := startTask(t, ctx, p, "A", &mockLogger{})
	waitFor(t, "Idle", func() bool { return task.State() == domain.StateIdle })

	if got := p.CountCalls(fake.OpTriggerSeparation, "A"); got != 1 {
		t.Errorf("direct separations = %d, want 1", got)
	}
	cancel()
	waitDone(t, done)
}

func TestTask_NoSettleWhenNothingFired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	st := fake.Ascending(45000, 50)
	st.Fairings = nil
	st.FairingAttached = true
	p := fake.NewProvider()
	p.Add("A", "Alpha", st)

	logger := &mockLogger{}
	task, done := startTask(t, ctx, p, "A", logger)
	time.Sleep(30 * time.Millisecond)
	cancel()
	waitDone(t, done)

	if logger.has("info", "jettison triggered") {
		t.Error("nothing fired, jettison must not be reported")
	}
	if logger.has("debug", "jettison not confirmed yet") {
		t.Error("nothing fired, confirmation must be skipped")
	}
	if !logger.has("debug", "no fairing part to jettison") {
		t.Error("empty jettison should be logged")
	}
	if task.State() != domain.StateMonitoring {
		t.Errorf("state = %v, want Monitoring", task.State())
	}
}

func TestTask_AdvancesOnlyAfterConfirmation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := fake.NewProvider()
	p.SetSeparateOnTrigger(false)
	p.Add("A", "Alpha", fake.Ascending(45000, 50))

	task, done := startTask(t, ctx, p, "A", &mockLogger{})
	waitFor(t, "repeated triggers", func() bool {
		return p.CountCalls(fake.OpTriggerAction, "A") >= 2
	})
	if task.State() != domain.StateMonitoring {
		t.Fatalf("advanced without confirmation: %v", task.State())
	}
	if p.CountCalls(fake.OpSetDeployed, "A") != 0 {
		t.Fatal("payload toggled while fairing attached")
	}

	p.Update("A", func(st *domain.PhysicalState) { st.Fairings[0].Jettisoned = true })
	waitFor(t, "Idle", func() bool { return task.State() == domain.StateIdle })

	cancel()
	waitDone(t, done)
}

func TestTask_NoFairingAdvancesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := fake.Ascending(100, 2000)
	st.Fairings = nil
	st.FairingAttached = false
	p := fake.NewProvider()
	p.Add("A", "Alpha", st)

	task, done := startTask(t, ctx, p, "A", &mockLogger{})
	waitFor(t, "Idle", func() bool { return task.State() == domain.StateIdle })
	if p.CountCalls(fake.OpTriggerAction, "A")+p.CountCalls(fake.OpTriggerSeparation, "A") != 0 {
		t.Error("nothing to jettison")
	}
	cancel()
	waitDone(t, done)
}

func TestTask_FailureDeactivates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *fake.Provider)
	}{
		{"read error", func(p *fake.Provider) { p.SetReadError("A", errors.New("boom")) }},
		{"trigger error", func(p *fake.Provider) { p.SetTriggerError("A", errors.New("boom")) }},
		{"panic", func(p *fake.Provider) { p.SetReadPanic("A", true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fake.NewProvider()
			p.Add("A", "Alpha", fake.Ascending(45000, 50))
			tt.setup(p)

			logger := &mockLogger{}
			task, done := startTask(t, context.Background(), p, "A", logger)
			waitDone(t, done)

			if task.State() != domain.StateFailed {
				t.Errorf("state = %v, want Failed", task.State())
			}
			if task.Entity().Active() {
				t.Error("failed task must deactivate its entity")
			}
			if !logger.has("error", "automation failed") {
				t.Error("failure should be logged")
			}
		})
	}
}

func TestTask_IdleProbeFailsWhenVesselGone(t *testing.T) {
	p := fake.NewProvider()
	p.Add("A", "Alpha", fake.Ascending(45000, 50))

	task, done := startTask(t, context.Background(), p, "A", &mockLogger{})
	waitFor(t, "Idle", func() bool { return task.State() == domain.StateIdle })

	p.Remove("A")
	waitDone(t, done)

	if task.State() != domain.StateFailed {
		t.Errorf("state = %v, want Failed", task.State())
	}
	if task.Entity().Active() {
		t.Error("entity should be inactive")
	}
}
