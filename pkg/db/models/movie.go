package models

import (
	"time"

	"github.com/google/uuid"
)

// Movie captures an uploaded video and its stored object key. The record and
// the object share a lifecycle: deleting one without the other is a bug.
type Movie struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID   *uuid.UUID `gorm:"column:profile_id;type:uuid;index"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description;type:text;not null"`
	FileKey     string     `gorm:"column:file_key;not null;unique"`
	MimeType    string     `gorm:"column:mime_type;not null"`
	SizeBytes   int64      `gorm:"column:size_bytes;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
