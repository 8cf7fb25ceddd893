package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&ScoreRecord{})
}

// ScoreRecord is the outcome of scoring one frame from one camera.
type ScoreRecord struct {
	gorm.Model
	UUID      string
	FrameUUID string `gorm:"index"`
	Camera    string `gorm:"index"`
	FaceCount int
	Score     float64
	Defined   bool
	ElapsedMS int64
}

func (s *ScoreRecord) BeforeCreate(tx *gorm.DB) error {
	if len(s.UUID) == 0 {
		s.UUID = uuid.NewString()
	}
	return nil
}
