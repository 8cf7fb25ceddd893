package repos

import (
	"github.com/tauraamui/maskdaemon/pkg/database/dbconn"
	"github.com/tauraamui/maskdaemon/pkg/database/models"
	"github.com/tauraamui/xerror"
)

const defaultRecentLimit = 20

type ScoreRepository struct {
	DB dbconn.GormWrapper
}

func (r *ScoreRepository) Create(record *models.ScoreRecord) error {
	return r.DB.Create(record).Error()
}

// Recent returns up to limit records, newest first.
func (r *ScoreRepository) Recent(limit int) ([]models.ScoreRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	records := []models.ScoreRecord{}
	if err := r.DB.Order("created_at desc").Limit(limit).Find(&records).Error(); err != nil {
		return nil, xerror.Errorf("unable to load recent scores: %w", err)
	}
	return records, nil
}

// RecentForCamera is Recent restricted to one camera title.
func (r *ScoreRepository) RecentForCamera(camera string, limit int) ([]models.ScoreRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	records := []models.ScoreRecord{}
	if err := r.DB.Where("camera = ?", camera).Order("created_at desc").Limit(limit).Find(&records).Error(); err != nil {
		return nil, xerror.Errorf("unable to load recent scores for %s: %w", camera, err)
	}
	return records, nil
}
