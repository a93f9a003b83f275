package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypePostCreated = "post.created"
	TypePostDeleted = "post.deleted"
)

type PostEventPayload struct {
	PostID uuid.UUID `json:"post_id"`
	Title  string    `json:"title"`
}

type PostEvent struct {
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   PostEventPayload `json:"payload"`
}

func NewPostCreated(postID uuid.UUID, title string) PostEvent {
	return newPostEvent(TypePostCreated, postID, title)
}

func NewPostDeleted(postID uuid.UUID, title string) PostEvent {
	return newPostEvent(TypePostDeleted, postID, title)
}

func newPostEvent(eventType string, postID uuid.UUID, title string) PostEvent {
	return PostEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload: PostEventPayload{
			PostID: postID,
			Title:  title,
		},
	}
}
