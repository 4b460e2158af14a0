// Package dataapi talks to the hosted record store that owns studio videos
// through its PostgREST-style REST interface.
package dataapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/platform/ctxutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

const tracerName = "github.com/yungbote/studio-tracker/internal/clients/dataapi"

type Client interface {
	ListVideos(ctx context.Context, ownerUserID uuid.UUID) ([]*studio.Video, error)
	// DeleteVideo reports whether a row was removed. A non-nil owner restricts
	// the delete to that owner's rows.
	DeleteVideo(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID) (bool, error)
}

type Config struct {
	BaseURL string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Table   string        `yaml:"table"`
	Timeout time.Duration `yaml:"timeout"`
}

// StatusError is a non-2xx reply from the data API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("data api: http %d", e.Code)
	}
	return fmt.Sprintf("data api: http %d: %s", e.Code, body)
}

func (e *StatusError) HTTPStatusCode() int { return e.Code }

type client struct {
	log     *logger.Logger
	cfg     Config
	httpc   *http.Client
	baseURL *url.URL
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, fmt.Errorf("missing DATA_API_URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse DATA_API_URL: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing DATA_API_KEY")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		cfg.Table = "videos"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &client{
		log:     log.With("client", "DataAPI"),
		cfg:     cfg,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		baseURL: u,
	}, nil
}

func (c *client) tableURL(q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/rest/v1/" + url.PathEscape(c.cfg.Table)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *client) ListVideos(ctx context.Context, ownerUserID uuid.UUID) ([]*studio.Video, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dataapi.list_videos")
	defer span.End()

	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	if ownerUserID != uuid.Nil {
		q.Set("user_id", "eq."+ownerUserID.String())
	}

	var out []*studio.Video
	if err := c.do(ctx, http.MethodGet, c.tableURL(q), nil, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	if out == nil {
		out = []*studio.Video{}
	}
	span.SetAttributes(attribute.Int("studio.video_count", len(out)))
	return out, nil
}

func (c *client) DeleteVideo(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dataapi.delete_video",
		trace.WithAttributes(attribute.String("studio.video_id", id.String())))
	defer span.End()

	q := url.Values{}
	q.Set("id", "eq."+id.String())
	if ownerUserID != uuid.Nil {
		q.Set("user_id", "eq."+ownerUserID.String())
	}

	var removed []json.RawMessage
	headers := map[string]string{"Prefer": "return=representation"}
	if err := c.do(ctx, http.MethodDelete, c.tableURL(q), headers, &removed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return false, err
	}
	return len(removed) > 0, nil
}

func (c *client) do(ctx context.Context, method, target string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return err
	}
	bearer := c.cfg.APIKey
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.Token != "" {
		bearer = rd.Token
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("data api: read body: %w", err)
	}
	c.log.Debug("Data API call", "method", method, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if out == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("data api: decode %s response: %w", method, err)
	}
	return nil
}
