package server

import (
	"context"
	"encoding/json"
	"log"

	"devmate/internal/models"
	"devmate/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventNotification    = "notification"
	EventMessageReceived = "message_received"
	EventPostCreated     = "post_created"
)

// publishUserEvent delivers an event to every connection the user holds, on
// this instance and (through Redis) on every other instance. The direct hub
// broadcast is only used when Redis is unavailable, otherwise the pattern
// subscriber would deliver the event twice locally.
func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	observability.RecordWebSocketEvent(eventType)
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
}

func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	observability.RecordWebSocketEvent(eventType)
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
		return
	}
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
}

// publishNotification pushes a freshly persisted notification to its
// recipient. A nil notification (self-action, no row created) is a no-op.
func (s *Server) publishNotification(ctx context.Context, notification *models.Notification) {
	if notification == nil {
		return
	}
	payload := map[string]interface{}{
		"id":         notification.ID,
		"type":       notification.Type,
		"actor_id":   notification.ActorID,
		"post_id":    notification.PostID,
		"read":       notification.Read,
		"created_at": notification.CreatedAt,
	}
	if actor, err := s.userRepo.GetByID(ctx, notification.ActorID); err == nil {
		payload["actor"] = userSummaryPtr(actor)
	}
	s.publishUserEvent(notification.UserID, EventNotification, payload)
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
	}
}

func userSummaryPtr(user *models.User) map[string]interface{} {
	if user == nil {
		return nil
	}
	return userSummary(*user)
}
