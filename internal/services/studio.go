package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/observability"
	"github.com/yungbote/studio-tracker/internal/platform/gcp"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/realtime"
	"github.com/yungbote/studio-tracker/internal/studio/jobstore"
	"github.com/yungbote/studio-tracker/internal/studio/poller"
	"github.com/yungbote/studio-tracker/internal/studio/progress"
)

type DeleteOutcome string

const (
	DeleteOutcomeDeleted  DeleteOutcome = "deleted"
	DeleteOutcomeNotFound DeleteOutcome = "not_found"
)

// VideoView is a video as shown to its owner: the stored row with playable
// result URLs plus the derived progress labels.
type VideoView struct {
	*studio.Video
	Progress progress.Report `json:"progress"`
}

type WatchHandlers struct {
	OnViews func([]VideoView)
	OnError func(error)
	OnIdle  func()
}

type VideoService interface {
	List(ctx context.Context, owner uuid.UUID) ([]VideoView, error)
	Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) (DeleteOutcome, error)
	// Watch starts a poller scoped to ctx. The poller is returned even when
	// the initial load fails so the caller can retry with Refresh; the caller
	// must Stop it (or cancel ctx) on teardown.
	Watch(ctx context.Context, owner uuid.UUID, h WatchHandlers) (*poller.Poller, error)
}

// cachedLister is implemented by stores that can serve a recent snapshot.
type cachedLister interface {
	Cached(ctx context.Context, owner uuid.UUID) ([]*studio.Video, error)
}

type videoService struct {
	log      *logger.Logger
	store    jobstore.Store
	signer   gcp.URLSigner
	notifier StudioNotifier
	interval time.Duration
}

func NewVideoService(
	log *logger.Logger,
	store jobstore.Store,
	signer gcp.URLSigner,
	notifier StudioNotifier,
	interval time.Duration,
) VideoService {
	return &videoService{
		log:      log.With("service", "VideoService"),
		store:    store,
		signer:   signer,
		notifier: notifier,
		interval: interval,
	}
}

func (s *videoService) List(ctx context.Context, owner uuid.UUID) ([]VideoView, error) {
	var (
		videos []*studio.Video
		err    error
	)
	if cl, ok := s.store.(cachedLister); ok {
		videos, err = cl.Cached(ctx, owner)
	} else {
		videos, err = s.store.ListJobs(ctx, owner)
	}
	if err != nil {
		return nil, err
	}
	return s.views(ctx, videos), nil
}

func (s *videoService) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) (DeleteOutcome, error) {
	err := s.store.DeleteJob(ctx, owner, id)
	switch {
	case err == nil:
		observability.Current().ObserveDelete(string(DeleteOutcomeDeleted))
		s.log.Info("Studio video deleted", "video_id", id.String(), "owner", owner.String())
		s.notifier.VideoDeleted(ctx, owner, id)
		return DeleteOutcomeDeleted, nil
	case jobstore.IsNotFound(err):
		observability.Current().ObserveDelete(string(DeleteOutcomeNotFound))
		s.log.Info("Studio video already gone", "video_id", id.String(), "owner", owner.String())
		s.notifier.VideoDeleted(ctx, owner, id)
		s.notifier.Notice(ctx, owner, realtime.NewNotice(realtime.NoticeInfo, "That video was already deleted."))
		return DeleteOutcomeNotFound, nil
	default:
		observability.Current().ObserveDelete("error")
		s.log.Warn("Studio video delete failed", "video_id", id.String(), "error", err)
		s.notifier.Notice(ctx, owner, realtime.NewNotice(realtime.NoticeError, "Could not delete the video. Please try again."))
		return "", fmt.Errorf("delete video %s: %w", id, err)
	}
}

func (s *videoService) Watch(ctx context.Context, owner uuid.UUID, h WatchHandlers) (*poller.Poller, error) {
	fetch := func(ctx context.Context) ([]*studio.Video, error) {
		return s.store.ListJobs(ctx, owner)
	}
	opts := poller.Options{
		Interval: s.interval,
		OnError:  h.OnError,
		OnIdle:   h.OnIdle,
	}
	if h.OnViews != nil {
		opts.OnSnapshot = func(snap poller.Snapshot) {
			h.OnViews(s.views(ctx, snap.Videos))
		}
	}
	p := poller.New(s.log, fetch, opts)
	return p, p.Start(ctx)
}

// views derives labels and swaps stored object locations for playable URLs.
// Videos are copied so shared snapshots are never mutated. A URL that cannot
// be signed is left as stored.
func (s *videoService) views(ctx context.Context, videos []*studio.Video) []VideoView {
	out := make([]VideoView, 0, len(videos))
	for _, v := range videos {
		if v == nil {
			continue
		}
		cp := *v
		cp.VideoURL = s.sign(ctx, cp.VideoURL)
		cp.FinalVideoURL = s.sign(ctx, cp.FinalVideoURL)
		out = append(out, VideoView{Video: &cp, Progress: progress.Describe(&cp)})
	}
	return out
}

func (s *videoService) sign(ctx context.Context, raw *string) *string {
	if raw == nil || *raw == "" || s.signer == nil {
		return raw
	}
	signed, err := s.signer.SignURL(ctx, *raw)
	if err != nil {
		s.log.Warn("Result URL signing failed", "error", err)
		return raw
	}
	return &signed
}
