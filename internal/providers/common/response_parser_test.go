package common

import "testing"

func TestIsStatusResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  bool
		wantValue   string
		wantMessage string
	}{
		{
			name:        "building status",
			body:        `{"status": "building", "message": "Snapshot is still being built"}`,
			wantStatus:  true,
			wantValue:   "building",
			wantMessage: "Snapshot is still being built",
		},
		{
			name:       "failed status",
			body:       `{"status": "failed"}`,
			wantStatus: true,
			wantValue:  "failed",
		},
		{
			name:       "results array is not a status",
			body:       `[{"answer_text_markdown": "Acme is best"}]`,
			wantStatus: false,
		},
		{
			name:       "object without status field",
			body:       `{"snapshot_id": "abc"}`,
			wantStatus: false,
		},
		{
			name:       "invalid json",
			body:       `not json`,
			wantStatus: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isStatus, status, message := IsStatusResponse([]byte(tt.body))
			if isStatus != tt.wantStatus {
				t.Fatalf("expected isStatus=%v, got %v", tt.wantStatus, isStatus)
			}
			if status != tt.wantValue {
				t.Errorf("expected status %q, got %q", tt.wantValue, status)
			}
			if message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, message)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"sk-1234567890abcdef", "sk-1...cdef"},
		{"short", "***"},
		{"", "***"},
	}

	for _, tt := range tests {
		if got := MaskAPIKey(tt.key); got != tt.expected {
			t.Errorf("MaskAPIKey(%q) = %q, expected %q", tt.key, got, tt.expected)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("12345678"); got != 2 {
		t.Errorf("expected 2 tokens for 8 chars, got %d", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 tokens for empty text, got %d", got)
	}
}

func TestMin(t *testing.T) {
	if Min(2, 3) != 2 || Min(3, 2) != 2 || Min(2, 2) != 2 {
		t.Error("Min misbehaves")
	}
}
