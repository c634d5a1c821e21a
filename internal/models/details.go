// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Traits are the contextual signals the classifier reads from event details
// when adjusting the base threat score.
type Traits struct {
	Automated   bool
	Repeated    bool
	PayloadSize int
}

// EventDetails is the tagged union of per-type detail shapes. Each shape
// names its kind for wire encoding and exposes the classifier traits it
// carries. Callers that have no structured shape use OpaqueDetails.
type EventDetails interface {
	DetailKind() string
	Traits() Traits
}

// AuthDetails describes authentication and authorization outcomes.
type AuthDetails struct {
	Username  string `json:"username,omitempty"`
	Mechanism string `json:"mechanism,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Automated bool   `json:"automated,omitempty"`
	Repeated  bool   `json:"repeated,omitempty"`
}

func (AuthDetails) DetailKind() string { return "auth" }

func (d AuthDetails) Traits() Traits {
	return Traits{Automated: d.Automated, Repeated: d.Repeated}
}

// InjectionDetails describes an injection attempt. PayloadSize is derived
// from the captured payload.
type InjectionDetails struct {
	Parameter string `json:"parameter,omitempty"`
	Payload   string `json:"payload,omitempty"`
	Automated bool   `json:"automated,omitempty"`
	Repeated  bool   `json:"repeated,omitempty"`
}

func (InjectionDetails) DetailKind() string { return "injection" }

func (d InjectionDetails) Traits() Traits {
	return Traits{Automated: d.Automated, Repeated: d.Repeated, PayloadSize: len(d.Payload)}
}

// SessionDetails describes session anomalies such as hijack attempts.
type SessionDetails struct {
	PresentedSession string `json:"presented_session,omitempty"`
	ExpectedAddress  string `json:"expected_address,omitempty"`
	ObservedAddress  string `json:"observed_address,omitempty"`
	Automated        bool   `json:"automated,omitempty"`
	Repeated         bool   `json:"repeated,omitempty"`
}

func (SessionDetails) DetailKind() string { return "session" }

func (d SessionDetails) Traits() Traits {
	return Traits{Automated: d.Automated, Repeated: d.Repeated}
}

// ReconDetails describes scanning and probing activity.
type ReconDetails struct {
	Tool       string `json:"tool,omitempty"`
	TargetPath string `json:"target_path,omitempty"`
	Automated  bool   `json:"automated,omitempty"`
	Repeated   bool   `json:"repeated,omitempty"`
}

func (ReconDetails) DetailKind() string { return "recon" }

func (d ReconDetails) Traits() Traits {
	return Traits{Automated: d.Automated, Repeated: d.Repeated}
}

// RateLimitDetails describes a rate-limit breach.
type RateLimitDetails struct {
	Limit     int    `json:"limit,omitempty"`
	Count     int    `json:"count,omitempty"`
	Window    string `json:"window,omitempty"`
	Automated bool   `json:"automated,omitempty"`
	Repeated  bool   `json:"repeated,omitempty"`
}

func (RateLimitDetails) DetailKind() string { return "rate_limit" }

func (d RateLimitDetails) Traits() Traits {
	return Traits{Automated: d.Automated, Repeated: d.Repeated}
}

// OpaqueDetails is the fallback shape for callers without a structured
// detail type and for unknown kinds arriving on the wire. Traits are read
// from well-known keys so classification still sees them.
type OpaqueDetails map[string]any

func (OpaqueDetails) DetailKind() string { return "opaque" }

func (d OpaqueDetails) Traits() Traits {
	var t Traits
	if v, ok := d["automated"].(bool); ok {
		t.Automated = v
	}
	if v, ok := d["repeated"].(bool); ok {
		t.Repeated = v
	}
	switch v := d["payload_size"].(type) {
	case float64:
		t.PayloadSize = int(v)
	case int:
		t.PayloadSize = v
	}
	if t.PayloadSize == 0 {
		if v, ok := d["payload"].(string); ok {
			t.PayloadSize = len(v)
		}
	}
	return t
}

// detailEnvelope is the wire form of the EventDetails union.
type detailEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalDetails encodes a detail shape into its kind envelope.
func MarshalDetails(d EventDetails) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal %s details: %w", d.DetailKind(), err)
	}
	return json.Marshal(detailEnvelope{Kind: d.DetailKind(), Data: data})
}

// UnmarshalDetails decodes a kind envelope into its concrete shape. Unknown
// kinds decode into OpaqueDetails so forward compatibility never costs an
// ingest failure.
func UnmarshalDetails(b []byte) (EventDetails, error) {
	var env detailEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("unmarshal detail envelope: %w", err)
	}
	decode := func(into EventDetails) (EventDetails, error) {
		if len(env.Data) == 0 {
			return into, nil
		}
		if err := json.Unmarshal(env.Data, into); err != nil {
			return nil, fmt.Errorf("unmarshal %s details: %w", env.Kind, err)
		}
		return into, nil
	}
	switch env.Kind {
	case "auth":
		d, err := decode(&AuthDetails{})
		if err != nil {
			return nil, err
		}
		return *d.(*AuthDetails), nil
	case "injection":
		d, err := decode(&InjectionDetails{})
		if err != nil {
			return nil, err
		}
		return *d.(*InjectionDetails), nil
	case "session":
		d, err := decode(&SessionDetails{})
		if err != nil {
			return nil, err
		}
		return *d.(*SessionDetails), nil
	case "recon":
		d, err := decode(&ReconDetails{})
		if err != nil {
			return nil, err
		}
		return *d.(*ReconDetails), nil
	case "rate_limit":
		d, err := decode(&RateLimitDetails{})
		if err != nil {
			return nil, err
		}
		return *d.(*RateLimitDetails), nil
	default:
		opaque := OpaqueDetails{}
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &opaque); err != nil {
				return nil, fmt.Errorf("unmarshal opaque details: %w", err)
			}
		}
		return opaque, nil
	}
}
