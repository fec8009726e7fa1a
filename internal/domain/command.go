package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Command kinds handled by the control process.
const (
	CommandSwitchTarget = "switch_target"
	CommandSwitchMode   = "switch_mode"
	CommandDeploy       = "deploy"
	CommandGear         = "gear"
	CommandJettison     = "jettison"
	CommandActionGroup  = "action_group"
)

// Command is an opaque operator instruction. There is no acknowledgement.
type Command struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewCommand builds a command with a JSON-encoded payload.
func NewCommand(kind string, payload interface{}) (Command, error) {
	if payload == nil {
		return Command{Kind: kind}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Command{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Command{Kind: kind, Payload: b}, nil
}

// PayloadString decodes a string payload. Bare unquoted text is accepted
// as-is so that hand-typed messages work.
func (c Command) PayloadString() (string, error) {
	raw := bytes.TrimSpace(c.Payload)
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: %s needs a payload", ErrInvalidPayload, c.Kind)
	}
	if raw[0] != '"' {
		if raw[0] == '{' || raw[0] == '[' {
			return "", fmt.Errorf("%w: %s expects a string", ErrInvalidPayload, c.Kind)
		}
		return string(raw), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s needs a payload", ErrInvalidPayload, c.Kind)
	}
	return s, nil
}

// DecodePayload unmarshals an object payload into v.
func (c Command) DecodePayload(v interface{}) error {
	if len(bytes.TrimSpace(c.Payload)) == 0 {
		return fmt.Errorf("%w: %s needs a payload", ErrInvalidPayload, c.Kind)
	}
	if err := json.Unmarshal(c.Payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// ActionGroupPayload is the payload of an action_group command.
type ActionGroupPayload struct {
	Entity string `json:"entity"`
	Group  string `json:"group"`
}
