// ABOUTME: Tests for the gateway action discriminator
// ABOUTME: Verifies wire-name parsing, round-tripping, and session requirements

package models

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"login", ActionLogin},
		{"carta", ActionCard},
		{"voti", ActionGrades},
		{"assenze", ActionAbsences},
		{"", ActionInvalid},
		{"LOGIN", ActionInvalid},
		{" voti", ActionInvalid},
		{"grades", ActionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseAction(tt.in); got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAction_StringRoundTrip(t *testing.T) {
	for _, a := range []Action{ActionLogin, ActionCard, ActionGrades, ActionAbsences} {
		if got := ParseAction(a.String()); got != a {
			t.Errorf("ParseAction(%q) = %v, want %v", a.String(), got, a)
		}
	}

	if ActionInvalid.String() != "invalid" {
		t.Errorf("ActionInvalid.String() = %q, want invalid", ActionInvalid.String())
	}
}

func TestAction_RequiresSession(t *testing.T) {
	if ActionLogin.RequiresSession() {
		t.Error("login should not require a session")
	}
	if ActionInvalid.RequiresSession() {
		t.Error("invalid should not require a session")
	}
	for _, a := range []Action{ActionCard, ActionGrades, ActionAbsences} {
		if !a.RequiresSession() {
			t.Errorf("%s should require a session", a)
		}
	}
}
