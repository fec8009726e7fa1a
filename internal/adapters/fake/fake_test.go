package fake

import (
	"context"
	"errors"
	"testing"

	"github.com/rspctl/rsp/internal/domain"
)

func TestProvider_TriggerSeparatesFairing(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()
	p.Add("A", "Alpha", Ascending(45000, 50))

	if err := p.TriggerAction(ctx, "A", "fairing-1", "Deploy"); err != nil {
		t.Fatalf("TriggerAction: %v", err)
	}
	st, err := p.ReadState(ctx, "A")
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if st.FairingAttached {
		t.Fatal("fairing should be separated")
	}
	if got := p.CountCalls(OpTriggerAction, "A"); got != 1 {
		t.Fatalf("trigger calls = %d, want 1", got)
	}
}

func TestProvider_ReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()
	p.Add("A", "Alpha", Ascending(100, 1000))

	st, _ := p.ReadState(ctx, "A")
	st.Deployables[0].Deployed = true

	again, _ := p.ReadState(ctx, "A")
	if again.Deployables[0].Deployed {
		t.Fatal("mutating a read leaked into the provider")
	}
}

func TestProvider_RemoveAndHidden(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()
	p.Add("A", "Alpha", Ascending(0, 0))
	p.Add("B", "Beta", Ascending(0, 0))

	p.SetHidden("A", true)
	list, _ := p.ListEntities(ctx)
	if len(list) != 1 || list[0].ID != "B" {
		t.Fatalf("list = %+v, want only B", list)
	}
	if _, err := p.ReadState(ctx, "A"); err != nil {
		t.Fatalf("hidden entity should still be readable: %v", err)
	}

	p.Remove("B")
	if _, err := p.ReadState(ctx, "B"); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("ReadState(B) err = %v, want ErrEntityNotFound", err)
	}
}
