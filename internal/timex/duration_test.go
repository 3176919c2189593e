package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalJSON_String(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"5m"`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != 5*time.Minute {
		t.Fatalf("got %v want %v", d.Duration, 5*time.Minute)
	}
}

func TestDuration_UnmarshalJSON_Nanoseconds(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`1000000000`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != time.Second {
		t.Fatalf("got %v want %v", d.Duration, time.Second)
	}
}

func TestDuration_UnmarshalJSON_Invalid(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatalf("expected error for invalid duration string")
	}
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatalf("expected error for boolean value")
	}
}
