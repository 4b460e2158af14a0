package gcp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

const gcsPublicHost = "storage.googleapis.com"

// SignerConfig controls how stored video locations are turned into playable URLs.
type SignerConfig struct {
	// Sign issues V4 signed URLs. When false, public URLs are returned.
	Sign          bool          `yaml:"sign"`
	TTL           time.Duration `yaml:"ttl"`
	Mode          string        `yaml:"mode"`
	EmulatorHost  string        `yaml:"emulator_host"`
	CDNDomain     string        `yaml:"cdn_domain"`
	PublicBaseURL string        `yaml:"public_base_url"`
}

// URLSigner rewrites gs:// and storage.googleapis.com locations. Anything else
// is returned unchanged.
type URLSigner interface {
	SignURL(ctx context.Context, raw string) (string, error)
	Close() error
}

type urlSigner struct {
	log    *logger.Logger
	cfg    SignerConfig
	mode   StorageMode
	client *storage.Client
	now    func() time.Time
}

func NewURLSigner(ctx context.Context, log *logger.Logger, cfg SignerConfig) (URLSigner, error) {
	mode, err := ResolveStorageMode(cfg.Mode, cfg.EmulatorHost)
	if err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	s := &urlSigner{
		log:  log.With("service", "URLSigner"),
		cfg:  cfg,
		mode: mode,
		now:  time.Now,
	}
	if cfg.Sign && mode == StorageModeGCS {
		opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadOnly))
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		s.client = client
	}
	s.log.Info("Video URL signer initialized",
		"mode", mode,
		"sign", s.client != nil,
		"ttl", cfg.TTL.String(),
	)
	return s, nil
}

func (s *urlSigner) SignURL(_ context.Context, raw string) (string, error) {
	bucket, key, ok := ParseObjectRef(raw)
	if !ok {
		return raw, nil
	}
	if s.client != nil {
		signed, err := s.client.Bucket(bucket).SignedURL(key, &storage.SignedURLOptions{
			Method:  "GET",
			Scheme:  storage.SigningSchemeV4,
			Expires: s.now().Add(s.cfg.TTL),
		})
		if err != nil {
			return "", fmt.Errorf("sign gs://%s/%s: %w", bucket, key, err)
		}
		return signed, nil
	}
	return s.publicURL(bucket, key), nil
}

func (s *urlSigner) publicURL(bucket, key string) string {
	if d := strings.TrimSpace(s.cfg.CDNDomain); d != "" {
		return fmt.Sprintf("https://%s/%s", d, key)
	}
	if s.mode == StorageModeGCSEmulator {
		base := strings.TrimRight(firstNonEmpty(s.cfg.PublicBaseURL, s.cfg.EmulatorHost), "/")
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bucket), url.PathEscape(key))
	}
	if base := strings.TrimRight(strings.TrimSpace(s.cfg.PublicBaseURL), "/"); base != "" {
		return fmt.Sprintf("%s/%s/%s", base, bucket, key)
	}
	return fmt.Sprintf("https://%s/%s/%s", gcsPublicHost, bucket, key)
}

func (s *urlSigner) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// ParseObjectRef accepts gs://bucket/key and https://storage.googleapis.com/bucket/key.
func ParseObjectRef(raw string) (bucket, key string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	var path string
	switch {
	case u.Scheme == "gs":
		bucket = u.Host
		path = u.Path
	case (u.Scheme == "https" || u.Scheme == "http") && u.Host == gcsPublicHost && u.RawQuery == "":
		path = u.Path
		b, rest, found := strings.Cut(strings.TrimPrefix(path, "/"), "/")
		if !found {
			return "", "", false
		}
		bucket, path = b, rest
	default:
		return "", "", false
	}
	key = strings.TrimLeft(path, "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// SignerConfigFromEnv reads the OBJECT_STORAGE_* and GCS_* variables.
func SignerConfigFromEnv() SignerConfig {
	return SignerConfig{
		Mode:          os.Getenv("OBJECT_STORAGE_MODE"),
		EmulatorHost:  os.Getenv("STORAGE_EMULATOR_HOST"),
		CDNDomain:     os.Getenv("VIDEO_CDN_DOMAIN"),
		PublicBaseURL: os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL"),
	}
}
