package dataapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/platform/ctxutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(logger.Nop(), Config{BaseURL: srv.URL, APIKey: "service-key", Table: "videos"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestListVideos(t *testing.T) {
	owner := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/rest/v1/videos" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("order"); got != "created_at.desc" {
			t.Errorf("unexpected order: %q", got)
		}
		if got := r.URL.Query().Get("user_id"); got != "eq."+owner.String() {
			t.Errorf("unexpected owner filter: %q", got)
		}
		if r.Header.Get("apikey") != "service-key" {
			t.Errorf("missing apikey header")
		}
		if r.Header.Get("Authorization") != "Bearer user-token" {
			t.Errorf("expected caller token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"` + uuid.NewString() + `","status":"processing","generation_step":"extending_2","total_extensions":3,"voice_status":"pending","cost":1.5,"created_at":"2026-10-19T10:00:00.000000+00:00"},
			{"id":"` + uuid.NewString() + `","status":"failed","error_message":"quota","created_at":"2026-10-19T09:00:00+00:00"}
		]`))
	})

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: owner, Token: "user-token"})
	videos, err := c.ListVideos(ctx, owner)
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	v := videos[0]
	if v.Status != studio.StatusProcessing || v.GenerationStep == nil || *v.GenerationStep != "extending_2" {
		t.Fatalf("unexpected first video: %+v", v)
	}
	if v.TotalExtensions == nil || *v.TotalExtensions != 3 || v.VoiceStatus == nil || *v.VoiceStatus != studio.StatusPending {
		t.Fatalf("unexpected pipeline fields: %+v", v)
	}
	if videos[1].ErrorMessage == nil || *videos[1].ErrorMessage != "quota" {
		t.Fatalf("unexpected error message: %+v", videos[1])
	}
}

func TestListVideosStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"upstream down"}`, http.StatusServiceUnavailable)
	})
	_, err := c.ListVideos(context.Background(), uuid.Nil)
	var se *StatusError
	if !errors.As(err, &se) || se.HTTPStatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("expected StatusError 503, got %v", err)
	}
}

func TestDeleteVideo(t *testing.T) {
	existing := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("missing Prefer header")
		}
		if r.URL.Query().Get("id") == "eq."+existing.String() {
			_, _ = w.Write([]byte(`[{"id":"` + existing.String() + `"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	removed, err := c.DeleteVideo(context.Background(), uuid.Nil, existing)
	if err != nil || !removed {
		t.Fatalf("DeleteVideo(existing): removed=%v err=%v", removed, err)
	}
	removed, err = c.DeleteVideo(context.Background(), uuid.Nil, uuid.New())
	if err != nil || removed {
		t.Fatalf("DeleteVideo(missing): removed=%v err=%v", removed, err)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(logger.Nop(), Config{APIKey: "k"}); err == nil {
		t.Fatalf("expected missing url error")
	}
	if _, err := New(logger.Nop(), Config{BaseURL: "http://localhost"}); err == nil {
		t.Fatalf("expected missing key error")
	}
}
