package event

import "testing"

func TestNew(t *testing.T) {
	evt := New(TypeStatusChanged, 42, map[string]interface{}{"action": "ASSIGN"})

	if evt.ID == "" {
		t.Error("expected generated event ID")
	}
	if evt.CorrelationID == "" {
		t.Error("expected generated correlation ID")
	}
	if evt.Type != TypeStatusChanged {
		t.Errorf("Type = %v, want %v", evt.Type, TypeStatusChanged)
	}
	if evt.WorkItemID != 42 {
		t.Errorf("WorkItemID = %d, want 42", evt.WorkItemID)
	}
	if evt.OccurredOn.IsZero() {
		t.Error("expected OccurredOn to be set")
	}
	if evt.PayloadString("action") != "ASSIGN" {
		t.Errorf("payload action = %q, want ASSIGN", evt.PayloadString("action"))
	}
}

func TestNewWithCorrelation(t *testing.T) {
	evt := NewWithCorrelation(TypeWorkItemCreated, 1, nil, "corr-123")
	if evt.CorrelationID != "corr-123" {
		t.Errorf("CorrelationID = %q, want corr-123", evt.CorrelationID)
	}
}

func TestWithPayload(t *testing.T) {
	original := New(TypeStatusChanged, 1, map[string]interface{}{"a": "1"})
	extended := original.WithPayload("b", "2")

	if extended.PayloadString("a") != "1" || extended.PayloadString("b") != "2" {
		t.Errorf("extended payload = %v, want a and b present", extended.Payload)
	}
	if _, ok := original.Payload["b"]; ok {
		t.Error("expected original payload to be unchanged")
	}
	if extended.ID != original.ID {
		t.Error("expected copy to keep the event identity")
	}
}

func TestPayloadAccessors(t *testing.T) {
	evt := New(TypeStatusChanged, 1, map[string]interface{}{
		"str":     "hello",
		"int":     7,
		"int64":   int64(8),
		"float":   9.0,
		"wrongly": []string{"typed"},
	})

	if got := evt.PayloadString("str"); got != "hello" {
		t.Errorf("PayloadString(str) = %q, want hello", got)
	}
	if got := evt.PayloadString("missing"); got != "" {
		t.Errorf("PayloadString(missing) = %q, want empty", got)
	}
	if got := evt.PayloadInt("int"); got != 7 {
		t.Errorf("PayloadInt(int) = %d, want 7", got)
	}
	if got := evt.PayloadInt("int64"); got != 8 {
		t.Errorf("PayloadInt(int64) = %d, want 8", got)
	}
	if got := evt.PayloadInt("float"); got != 9 {
		t.Errorf("PayloadInt(float) = %d, want 9", got)
	}
	if got := evt.PayloadInt("wrongly"); got != 0 {
		t.Errorf("PayloadInt(wrongly) = %d, want 0", got)
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, tt := range []struct {
		eventType Type
		want      bool
	}{
		{TypeWorkItemCreated, true},
		{TypeStatusChanged, true},
		{TypeWorkItemUpdated, true},
		{Type("workitem.deleted"), false},
		{Type(""), false},
	} {
		if got := tt.eventType.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.eventType, got, tt.want)
		}
	}
}
