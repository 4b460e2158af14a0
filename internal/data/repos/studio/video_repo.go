package studio

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/pkg/dbctx"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

type VideoRepo interface {
	Create(dbc dbctx.Context, videos []*types.Video) ([]*types.Video, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Video, error)
	ListByOwner(dbc dbctx.Context, ownerUserID uuid.UUID) ([]*types.Video, error)
	DeleteByID(dbc dbctx.Context, ownerUserID uuid.UUID, id uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{
		db:  db,
		log: baseLog.With("repo", "VideoRepo"),
	}
}

func (r *videoRepo) Create(dbc dbctx.Context, videos []*types.Video) ([]*types.Video, error) {
	if len(videos) == 0 {
		return []*types.Video{}, nil
	}
	if err := dbc.Conn(r.db).Create(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// GetByID returns nil, nil when the row does not exist.
func (r *videoRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Video, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Video
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

// ListByOwner returns the owner's videos newest first. uuid.Nil lists every
// owner, for the super-admin console.
func (r *videoRepo) ListByOwner(dbc dbctx.Context, ownerUserID uuid.UUID) ([]*types.Video, error) {
	q := dbc.Conn(r.db).Model(&types.Video{})
	if ownerUserID != uuid.Nil {
		q = q.Where("user_id = ?", ownerUserID)
	}
	out := []*types.Video{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID removes one row and reports whether it existed. With a non-nil
// owner, rows belonging to someone else are left alone and reported missing.
func (r *videoRepo) DeleteByID(dbc dbctx.Context, ownerUserID uuid.UUID, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	q := dbc.Conn(r.db).Where("id = ?", id)
	if ownerUserID != uuid.Nil {
		q = q.Where("user_id = ?", ownerUserID)
	}
	res := q.Delete(&types.Video{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateFields is the write path of the generation pipeline and admin tooling.
func (r *videoRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return dbc.Conn(r.db).
		Model(&types.Video{}).
		Where("id = ?", id).
		Updates(updates).Error
}
