package realtime

import "github.com/meezumi/content-review-platform/internal/domain"

// Client-to-server event types.
const (
	EventJoinRoom   = "joinRoom"
	EventLeaveRoom  = "leaveRoom"
	EventNewComment = "newComment"
)

// Server-to-client event types.
const (
	EventCommentReceived = "commentReceived"
	EventError           = "error"
)

type ClientMessage struct {
	Type        string             `json:"type"`
	DocumentID  int64              `json:"documentId,omitempty"`
	VersionID   *int64             `json:"versionId,omitempty"`
	Text        string             `json:"text,omitempty"`
	CommentType domain.CommentType `json:"commentType,omitempty"`
	X           *float64           `json:"x,omitempty"`
	Y           *float64           `json:"y,omitempty"`
	PageNumber  int                `json:"pageNumber,omitempty"`
}

type ServerMessage struct {
	Type         string          `json:"type"`
	DocumentID   int64           `json:"documentId,omitempty"`
	Comment      *domain.Comment `json:"comment,omitempty"`
	ErrorCode    string          `json:"code,omitempty"`
	ErrorMessage string          `json:"message,omitempty"`
}

func NewCommentReceivedEvent(documentID int64, comment *domain.Comment) *ServerMessage {
	return &ServerMessage{
		Type:       EventCommentReceived,
		DocumentID: documentID,
		Comment:    comment,
	}
}

func NewErrorEvent(code, message string) *ServerMessage {
	return &ServerMessage{
		Type:         EventError,
		ErrorCode:    code,
		ErrorMessage: message,
	}
}
