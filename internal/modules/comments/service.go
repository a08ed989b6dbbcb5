package comments

import (
	"context"
	"fmt"

	"github.com/meezumi/content-review-platform/internal/domain"
	"github.com/meezumi/content-review-platform/internal/modules/documents"
)

type DocumentRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
}

type CommentRepo interface {
	ListForVersion(ctx context.Context, docID, versionID int64) ([]domain.Comment, error)
	ListForVersionExact(ctx context.Context, docID, versionID int64) ([]domain.Comment, error)
}

// Service is the read side of commenting. Comments are written through the
// realtime channel only; this surface lists them, either for the document's
// active version or for one specific revision.
type Service struct {
	docs     DocumentRepo
	comments CommentRepo
}

func NewService(docs DocumentRepo, comments CommentRepo) *Service {
	return &Service{docs: docs, comments: comments}
}

// ListForDocument returns the comments visible on the document's active
// version, oldest first. Untagged rows from before version tracking are
// included. Access follows the same rule as the document itself.
func (s *Service) ListForDocument(ctx context.Context, docID, callerID int64) ([]domain.Comment, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil, documents.ErrNotFound
	}
	if !documents.CanAccess(doc, callerID) {
		return nil, documents.ErrAccessDenied
	}

	list, err := s.comments.ListForVersion(ctx, docID, doc.ActiveVersionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if list == nil {
		list = []domain.Comment{}
	}
	return list, nil
}

// ListForVersion returns the comments tagged with one specific revision,
// oldest first. Untagged legacy rows are not included here; they only ride
// along on the active-version listing.
func (s *Service) ListForVersion(ctx context.Context, docID, versionID, callerID int64) ([]domain.Comment, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil, documents.ErrNotFound
	}
	if !documents.CanAccess(doc, callerID) {
		return nil, documents.ErrAccessDenied
	}

	list, err := s.comments.ListForVersionExact(ctx, docID, versionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if list == nil {
		list = []domain.Comment{}
	}
	return list, nil
}
