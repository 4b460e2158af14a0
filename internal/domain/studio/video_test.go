package studio

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusFailed, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusProcessing, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusFailed, StatusCompleted, false},
		{StatusCompleted, StatusCompleted, true},
		{Status("queued"), StatusProcessing, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s): got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	three, four := 3, 4
	bogus := Status("stalled")
	msg := "render failed"

	ok := &Video{ID: uuid.New(), Status: StatusProcessing, CurrentExtension: &three, TotalExtensions: &four}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	over := &Video{ID: uuid.New(), Status: StatusProcessing, CurrentExtension: &four, TotalExtensions: &three}
	if err := over.Validate(); err == nil {
		t.Fatalf("expected current_extension > total_extensions to fail")
	}

	badSub := &Video{ID: uuid.New(), Status: StatusProcessing, VoiceStatus: &bogus}
	if err := badSub.Validate(); err == nil {
		t.Fatalf("expected invalid voice_status to fail")
	}

	errOnDone := &Video{ID: uuid.New(), Status: StatusCompleted, ErrorMessage: &msg}
	if err := errOnDone.Validate(); err == nil {
		t.Fatalf("expected error_message on completed video to fail")
	}
}

func TestAnyInFlight(t *testing.T) {
	done := &Video{Status: StatusCompleted}
	failed := &Video{Status: StatusFailed}
	pending := &Video{Status: StatusPending}

	if AnyInFlight(nil) {
		t.Fatalf("empty list is not in flight")
	}
	if AnyInFlight([]*Video{done, failed, nil}) {
		t.Fatalf("terminal-only list is not in flight")
	}
	if !AnyInFlight([]*Video{done, pending}) {
		t.Fatalf("pending video should count as in flight")
	}
}
