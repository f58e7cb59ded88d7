package services

import (
	"encoding/json"
	"time"

	"songvault/internal/models"

	"go.uber.org/zap"
)

// EventPublisher delivers resource events to a broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// eventEmitter publishes resource events on a best-effort basis: failures are
// logged and never returned to the caller.
type eventEmitter struct {
	publisher EventPublisher
	log       *zap.Logger
}

func (e eventEmitter) emit(eventType, songID, userID, filename string) {
	if e.publisher == nil {
		return
	}

	event := models.ResourceEvent{
		Type:       eventType,
		SongID:     songID,
		UserID:     userID,
		Filename:   filename,
		OccurredAt: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		e.log.Warn("Failed to marshal resource event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := e.publisher.Publish(eventType, body); err != nil {
		e.log.Warn("Failed to publish resource event",
			zap.String("type", eventType), zap.String("song_id", songID), zap.Error(err))
		return
	}
	e.log.Debug("Published resource event", zap.String("type", eventType), zap.String("song_id", songID))
}
