package radio

import "testing"

func TestModeCapabilities(t *testing.T) {
	tests := []struct {
		mode   Mode
		client bool
		ap     bool
	}{
		{ModeOff, false, false},
		{ModeClient, true, false},
		{ModeAccessPoint, false, true},
		{ModeClientAndAccessPoint, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.ClientCapable(); got != tt.client {
				t.Errorf("ClientCapable = %v, want %v", got, tt.client)
			}
			if got := tt.mode.AccessPointCapable(); got != tt.ap {
				t.Errorf("AccessPointCapable = %v, want %v", got, tt.ap)
			}
		})
	}
}

func TestDisconnectReasonString(t *testing.T) {
	tests := []struct {
		reason DisconnectReason
		want   string
	}{
		{ReasonNone, "NONE"},
		{ReasonAssocLeave, "ASSOC_LEAVE"},
		{ReasonAuthFail, "AUTH_FAIL"},
		{ReasonNoAPFound, "NO_AP_FOUND"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}
