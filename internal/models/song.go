package models

import "time"

// Song represents a song resource. Its audio file, if any, lives in the
// resource store under "<ID>.<ext>" and is not referenced from the record.
type Song struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Artist    string    `json:"artist" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SongMetadata is computed from the stored audio file on every read.
type SongMetadata struct {
	Duration *float64 `json:"duration,omitempty"` // seconds
	Bitrate  *float64 `json:"bitrate,omitempty"`  // bits per second
	Filename string   `json:"filename"`
}
