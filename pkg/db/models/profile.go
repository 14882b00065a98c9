package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public-facing record tied 1:1 to a user. It exists only for
// activated identities; user_id goes null transiently while the owning
// identity is being deleted.
type Profile struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex:profiles_user_id_key"`
	Bio       string     `gorm:"column:bio;type:text;not null;default:''"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
