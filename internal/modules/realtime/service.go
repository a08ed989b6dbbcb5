package realtime

import (
	"context"
	"fmt"

	"github.com/meezumi/content-review-platform/internal/domain"
	"github.com/meezumi/content-review-platform/internal/modules/documents"
	"github.com/meezumi/content-review-platform/internal/pkg/kmutex"
)

type DocumentRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	GetVersion(ctx context.Context, docID, versionID int64) (*domain.DocumentVersion, error)
}

type CommentRepo interface {
	Create(ctx context.Context, comment *domain.Comment) error
}

type Notifier interface {
	Mention(ctx context.Context, mentionedUserID int64, authorName string, doc *domain.Document)
}

// Service glues the hub to storage: it gates room joins on document access
// and turns incoming comments into persisted rows plus room broadcasts.
type Service struct {
	docs     DocumentRepo
	comments CommentRepo
	notifier Notifier
	hub      *Hub
	locks    *kmutex.KeyedMutex
}

func NewService(docs DocumentRepo, comments CommentRepo, notifier Notifier, hub *Hub) *Service {
	return &Service{
		docs:     docs,
		comments: comments,
		notifier: notifier,
		hub:      hub,
		locks:    kmutex.New(),
	}
}

// Authorize checks that the user may enter the document's room. Joining
// re-runs the same access rule as the HTTP surface, so a revoked user cannot
// keep listening through an old socket.
func (s *Service) Authorize(ctx context.Context, documentID, userID int64) (*domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil, documents.ErrNotFound
	}
	if !documents.CanAccess(doc, userID) {
		return nil, documents.ErrAccessDenied
	}
	return doc, nil
}

// PostComment persists the comment and broadcasts it to the document's room.
//
// Persist and broadcast happen under the document's lock, so every subscriber
// observes comments in exactly the order they were stored. Mention emails are
// queued after the lock is released.
func (s *Service) PostComment(ctx context.Context, authorID int64, authorName string, msg ClientMessage) (*domain.Comment, error) {
	doc, err := s.Authorize(ctx, msg.DocumentID, authorID)
	if err != nil {
		return nil, err
	}

	// A pinned version must belong to this document; otherwise the comment
	// would be tagged into a foreign revision and never listed.
	if msg.VersionID != nil {
		version, err := s.docs.GetVersion(ctx, msg.DocumentID, *msg.VersionID)
		if err != nil {
			return nil, fmt.Errorf("load version: %w", err)
		}
		if version == nil {
			return nil, documents.ErrVersionNotFound
		}
	}

	commentType := msg.CommentType
	if commentType == "" {
		commentType = domain.CommentGeneral
	}
	pageNumber := msg.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}

	comment := &domain.Comment{
		DocumentID:  msg.DocumentID,
		AuthorID:    authorID,
		Text:        msg.Text,
		Type:        commentType,
		XCoordinate: msg.X,
		YCoordinate: msg.Y,
		PageNumber:  pageNumber,
	}

	s.locks.Lock(msg.DocumentID)
	// New comments always land on a concrete version, the active one unless
	// the client pinned an older revision it was viewing.
	versionID := doc.ActiveVersionID
	if msg.VersionID != nil {
		versionID = *msg.VersionID
	}
	comment.VersionID = &versionID

	err = s.comments.Create(ctx, comment)
	if err == nil {
		s.hub.BroadcastToRoom(msg.DocumentID, NewCommentReceivedEvent(msg.DocumentID, comment))
	}
	s.locks.Unlock(msg.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}

	for _, mentionedID := range ParseMentions(msg.Text) {
		if mentionedID == authorID {
			continue
		}
		s.notifier.Mention(ctx, mentionedID, authorName, doc)
	}

	return comment, nil
}
