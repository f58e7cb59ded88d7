package models

import "time"

// Resource event types published after successful song mutations.
const (
	EventSongCreated      = "song.created"
	EventSongUpdated      = "song.updated"
	EventSongDeleted      = "song.deleted"
	EventSongFileUploaded = "song.file_uploaded"
)

// ResourceEvent describes a change to a song resource.
type ResourceEvent struct {
	Type       string    `json:"type"`
	SongID     string    `json:"song_id"`
	UserID     string    `json:"user_id"`
	Filename   string    `json:"filename,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
