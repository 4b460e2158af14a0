package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	redactOnce.Do(func() {
		redactionEnabled = true
		hashSalt = ""
	})

	out := sanitizeKVs([]interface{}{
		"api_key", "sk-live",
		"owner", "5b0e",
		"status", "processing",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	if s, ok := out[3].(string); !ok || len(s) < 5 || s[:5] != "hash:" {
		t.Fatalf("owner not hashed: %v", out[3])
	}
	if out[5] != "processing" {
		t.Fatalf("status changed: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("odd trailing key dropped: %v", out[6])
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJhYmMifQ.sig") {
		t.Fatalf("expected jwt-shaped string to match")
	}
	if looksLikeJWT("extending_2") {
		t.Fatalf("pipeline step should not look like a jwt")
	}
}
