package main

import (
	"errors"
	"testing"

	"github.com/rspctl/rsp/internal/domain"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantKind    string
		wantPayload string
		wantErr     error
	}{
		{name: "no payload", args: []string{"gear"}, wantKind: "gear"},
		{name: "string payload", args: []string{"switch_mode", "orbit"}, wantKind: "switch_mode", wantPayload: `"orbit"`},
		{
			name:        "json payload",
			args:        []string{"action_group", `{"entity":"vessel-1","group":"science"}`},
			wantKind:    "action_group",
			wantPayload: `{"entity":"vessel-1","group":"science"}`,
		},
		{name: "broken json", args: []string{"action_group", `{"entity":`}, wantErr: domain.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildCommand(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("buildCommand() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildCommand() error = %v", err)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if string(got.Payload) != tt.wantPayload {
				t.Errorf("Payload = %s, want %s", got.Payload, tt.wantPayload)
			}
		})
	}
}
