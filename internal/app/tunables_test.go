package app

import (
	"testing"

	"github.com/rspctl/rsp/internal/domain"
)

func TestTunables_JettisonWindow(t *testing.T) {
	tun := DefaultTunables()
	tests := []struct {
		q, alt float64
		want   bool
	}{
		{50, 45000, true},
		{99.9, 40000.1, true},
		{100, 45000, false},
		{50, 40000, false},
		{500, 10000, false},
	}
	for _, tt := range tests {
		if got := tun.JettisonWindow(tt.q, tt.alt); got != tt.want {
			t.Errorf("JettisonWindow(%v, %v) = %v, want %v", tt.q, tt.alt, got, tt.want)
		}
	}
}

func TestLiveTunables_StoreCopiesGroups(t *testing.T) {
	groups := map[string]int{"chutes": 1}
	live := NewLiveTunables(Tunables{ActionGroups: groups})
	groups["chutes"] = 9

	if got := live.Load().ActionGroups["chutes"]; got != 1 {
		t.Fatalf("stored map aliased caller's map: %d", got)
	}

	live.Store(Tunables{MaxDynamicPressure: 5, MinAltitude: 10})
	if live.Load().MaxDynamicPressure != 5 {
		t.Fatal("Store not visible to Load")
	}
}

func TestView_SetMode(t *testing.T) {
	v := NewView()
	if v.Mode() != domain.ModeSurface {
		t.Fatalf("default mode = %q", v.Mode())
	}
	if err := v.SetMode("warp"); err == nil {
		t.Fatal("unknown mode accepted")
	}
	v.SetFocus("A")
	if err := v.SetMode(domain.ModeOrbit); err != nil {
		t.Fatal(err)
	}
	if v.Focus() != "A" || v.Mode() != domain.ModeOrbit {
		t.Fatalf("view = %q/%q", v.Focus(), v.Mode())
	}
}
