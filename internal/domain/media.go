package domain

import (
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaAvatar   MediaKind = "avatar"
	MediaDocument MediaKind = "document"
)

// Media is an uploaded object: a profile picture or a verification/clinical
// document. Objects live in a private bucket and are served via presigned
// URLs, so URL is computed on read and never stored.
type Media struct {
	ID          uuid.UUID  `json:"id" db:"media_id"`
	UploadedBy  uuid.UUID  `json:"uploaded_by" db:"uploaded_by"`
	Kind        MediaKind  `json:"kind" db:"kind"`
	RecordID    *string    `json:"record_id,omitempty" db:"record_id"`
	FileName    string     `json:"file_name" db:"file_name"`
	FileSize    int64      `json:"file_size" db:"file_size"`
	MimeType    string     `json:"mime_type" db:"mime_type"`
	StoragePath string     `json:"-" db:"storage_path"`
	URL         string     `json:"url" db:"-"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}
