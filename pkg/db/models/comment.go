package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a viewer remark on a movie. The author reference survives as
// null when the commenting profile is deleted.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MovieID   uuid.UUID  `gorm:"column:movie_id;type:uuid;not null;index"`
	ProfileID *uuid.UUID `gorm:"column:profile_id;type:uuid"`
	Body      string     `gorm:"column:body;type:text;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
