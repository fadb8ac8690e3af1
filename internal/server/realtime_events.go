package server

import (
	"context"
	"encoding/json"
	"log"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated    = "post_created"
	EventPostLiked      = "post_liked"
	EventCommentCreated = "comment_created"
)

// publishFeedEvent emits a feed event to every connected client, through Redis
// when configured and directly otherwise. Delivery is fire-and-forget: a
// failed publish is logged and never fails the request that caused it.
func (s *Server) publishFeedEvent(eventType string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}

	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}

	if err := s.notifier.PublishFeedEvent(context.Background(), eventType, string(eventJSON)); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}
