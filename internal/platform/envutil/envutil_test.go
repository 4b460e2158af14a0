package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 10 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"30", 30 * time.Second},
		{"soon", 10 * time.Second},
	}
	for _, tc := range cases {
		t.Setenv("STUDIO_TEST_DURATION", tc.raw)
		if got := Duration("STUDIO_TEST_DURATION", 10*time.Second); got != tc.want {
			t.Fatalf("Duration(%q): got %v want %v", tc.raw, got, tc.want)
		}
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("STUDIO_TEST_BOOL", "off")
	if Bool("STUDIO_TEST_BOOL", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("STUDIO_TEST_BOOL", "maybe")
	if !Bool("STUDIO_TEST_BOOL", true) {
		t.Fatalf("expected default for unparseable value")
	}

	t.Setenv("STUDIO_TEST_LIST", " http://a , ,http://b")
	got := List("STUDIO_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("unexpected list: %#v", got)
	}
}
