package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rspctl/rsp/internal/adapters/fake"
	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/queue"
)

func mustCommand(t *testing.T, kind string, payload interface{}) domain.Command {
	t.Helper()
	cmd, err := domain.NewCommand(kind, payload)
	if err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestCommandConsumer_DispatchesInOrderWithinOneDrain(t *testing.T) {
	q := queue.NewFIFO[domain.Command](8)
	d := NewDispatcher()

	var seen []string
	record := func(_ context.Context, cmd domain.Command) error {
		p, _ := cmd.PayloadString()
		seen = append(seen, cmd.Kind+":"+p)
		return nil
	}
	d.Handle(domain.CommandSwitchTarget, record)
	d.Handle(domain.CommandSwitchMode, record)

	_ = q.Offer(mustCommand(t, domain.CommandSwitchTarget, "B"))
	_ = q.Offer(mustCommand(t, domain.CommandSwitchMode, "orbit"))

	c := NewCommandConsumer(q, d, fastTiming.Monitor, &mockLogger{})
	if n := c.DrainOnce(context.Background()); n != 2 {
		t.Fatalf("drained %d, want 2", n)
	}
	if len(seen) != 2 || seen[0] != "switch_target:B" || seen[1] != "switch_mode:orbit" {
		t.Fatalf("dispatch order = %v", seen)
	}
}

func TestCommandConsumer_UnknownKindDropped(t *testing.T) {
	q := queue.NewFIFO[domain.Command](8)
	logger := &mockLogger{}
	c := NewCommandConsumer(q, NewDispatcher(), fastTiming.Monitor, logger)

	_ = q.Offer(domain.Command{Kind: "self_destruct"})
	c.DrainOnce(context.Background())

	if q.Len() != 0 {
		t.Fatal("unknown command should be consumed")
	}
	if !logger.has("warn", "unknown command dropped") {
		t.Error("unknown command should be logged")
	}
}

func TestDispatcher_UnknownKind(t *testing.T) {
	err := NewDispatcher().Dispatch(context.Background(), domain.Command{Kind: "nope"})
	if !errors.Is(err, domain.ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
}

func TestDefaultHandlers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	workers := &WaitGroupWorkers{}
	defer func() {
		cancel()
		workers.Wait()
	}()

	p := fake.NewProvider()
	st := fake.Ascending(0, 0)
	p.Add("A", "Alpha", st)
	registry := newTestRegistry(p, workers)
	registry.Reconcile(ctx, list(p))

	tunables := NewLiveTunables(Tunables{ActionGroups: map[string]int{"chutes": 3}})
	view := NewView()
	d := NewDispatcher()
	RegisterDefaultHandlers(d, CommandDeps{
		View:     view,
		Registry: registry,
		Provider: p,
		Tunables: tunables,
		Logger:   &mockLogger{},
	})

	tests := []struct {
		name    string
		cmd     domain.Command
		wantErr error
		check   func(t *testing.T)
	}{
		{
			name: "switch target",
			cmd:  mustCommand(t, domain.CommandSwitchTarget, "A"),
			check: func(t *testing.T) {
				if view.Focus() != "A" {
					t.Errorf("focus = %q", view.Focus())
				}
			},
		},
		{
			name: "switch mode",
			cmd:  mustCommand(t, domain.CommandSwitchMode, "orbit"),
			check: func(t *testing.T) {
				if view.Mode() != domain.ModeOrbit {
					t.Errorf("mode = %q", view.Mode())
				}
			},
		},
		{
			name:    "bad mode",
			cmd:     mustCommand(t, domain.CommandSwitchMode, "map"),
			wantErr: domain.ErrInvalidPayload,
		},
		{
			name:    "manual deploy keeps the fairing guard",
			cmd:     mustCommand(t, domain.CommandDeploy, "A"),
			wantErr: domain.ErrFairingAttached,
		},
		{
			name: "manual gear",
			cmd:  mustCommand(t, domain.CommandGear, "A"),
			check: func(t *testing.T) {
				if got := p.CountCalls(fake.OpSetDeployed, "A"); got != 3 {
					t.Errorf("gear toggles = %d, want 3", got)
				}
			},
		},
		{
			name:    "manual jettison on unknown entity",
			cmd:     mustCommand(t, domain.CommandJettison, "Z"),
			wantErr: domain.ErrEntityNotFound,
		},
		{
			name: "action group",
			cmd:  mustCommand(t, domain.CommandActionGroup, domain.ActionGroupPayload{Entity: "A", Group: "chutes"}),
			check: func(t *testing.T) {
				for _, c := range p.Calls() {
					if c.Op == fake.OpSetActionGroup && c.Group == 3 && c.Deployed {
						return
					}
				}
				t.Error("action group 3 was not set")
			},
		},
		{
			name:    "unknown action group",
			cmd:     mustCommand(t, domain.CommandActionGroup, domain.ActionGroupPayload{Entity: "A", Group: "abort"}),
			wantErr: domain.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Dispatch(ctx, tt.cmd)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}
