package documents

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/meezumi/content-review-platform/internal/domain"
	"github.com/meezumi/content-review-platform/internal/pkg/kmutex"
)

// Service owns the document lifecycle: creation, version appends, status
// transitions, collaborator management and the enrichment entry points.
//
// Mutations are serialized per document id through the lock arena so that two
// concurrent appends can never leave the active version pointing at neither
// of them. No lock is held across an enrichment or notification call.
type Service struct {
	docs     DocumentRepo
	users    UserRepo
	comments CommentRepo
	enricher Enricher
	notifier Notifier
	files    *FileStore
	locks    *kmutex.KeyedMutex
}

func NewService(
	docs DocumentRepo,
	users UserRepo,
	comments CommentRepo,
	enricher Enricher,
	notifier Notifier,
	files *FileStore,
) *Service {
	return &Service{
		docs:     docs,
		users:    users,
		comments: comments,
		enricher: enricher,
		notifier: notifier,
		files:    files,
		locks:    kmutex.New(),
	}
}

// CreateDocument stores the uploaded file as version 1 of a new document and
// runs enrichment synchronously. The uploader is the initial collaborator.
func (s *Service) CreateDocument(ctx context.Context, uploaderID int64, fileHeader *multipart.FileHeader, category string) (*domain.Document, error) {
	uploader, err := s.users.GetByID(ctx, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("load uploader: %w", err)
	}
	if uploader == nil {
		return nil, ErrUserNotFound
	}

	version, err := s.files.Save(fileHeader)
	if err != nil {
		return nil, err
	}

	if category == "" {
		category = domain.DefaultCategory
	}

	doc := &domain.Document{
		UploaderID:    uploaderID,
		Collaborators: []domain.User{*uploader},
		Category:      category,
		Status:        domain.StatusInReview,
		Summary:       domain.DefaultSummary,
		Sentiment:     domain.Sentiment{Overall: "NEUTRAL"},
	}
	if err := s.docs.Create(ctx, doc, version); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	// Enrichment failure never fails the upload.
	summary := s.enricher.GenerateSummary(ctx, version.StoragePath, version.MimeType)
	if err := s.docs.UpdateSummary(ctx, doc.ID, summary); err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}
	doc.Summary = summary

	return doc, nil
}

// AppendVersion adds a new revision to an existing document, resets its
// status to In Review, re-runs enrichment and notifies the other
// collaborators.
func (s *Service) AppendVersion(ctx context.Context, docID, callerID int64, fileHeader *multipart.FileHeader) (*domain.Document, error) {
	if _, err := s.loadAccessible(ctx, docID, callerID); err != nil {
		return nil, err
	}

	version, err := s.files.Save(fileHeader)
	if err != nil {
		return nil, err
	}

	if err := s.appendStoredVersion(ctx, docID, callerID, version); err != nil {
		return nil, err
	}

	return s.docs.GetByID(ctx, docID)
}

// appendStoredVersion commits an already-saved file as the document's new
// active version. The repository append holds the document lock so
// concurrent uploads to the same document cannot interleave.
func (s *Service) appendStoredVersion(ctx context.Context, docID, callerID int64, version *domain.DocumentVersion) error {
	s.locks.Lock(docID)
	err := s.docs.AppendVersion(ctx, docID, version)
	s.locks.Unlock(docID)
	if err != nil {
		return fmt.Errorf("append version: %w", err)
	}

	summary := s.enricher.GenerateSummary(ctx, version.StoragePath, version.MimeType)
	if err := s.docs.UpdateSummary(ctx, docID, summary); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}

	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	s.notifier.NewVersion(ctx, doc, callerID, s.usernameOf(ctx, callerID))
	return nil
}

// SetStatus applies a validated status transition. Transitioning to
// "Requires Changes" notifies the uploader unless they requested it
// themselves.
func (s *Service) SetStatus(ctx context.Context, docID, callerID int64, status domain.DocumentStatus) (*domain.Document, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	doc, err := s.loadAccessible(ctx, docID, callerID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(docID)
	err = s.docs.UpdateStatus(ctx, docID, status)
	s.locks.Unlock(docID)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	doc.Status = status

	if status == domain.StatusRequiresChanges {
		s.notifier.ChangesRequested(ctx, doc, callerID, s.usernameOf(ctx, callerID))
	}

	return doc, nil
}

// RequestChanges forces the document into "Requires Changes".
func (s *Service) RequestChanges(ctx context.Context, docID, callerID int64) (*domain.Document, error) {
	return s.SetStatus(ctx, docID, callerID, domain.StatusRequiresChanges)
}

// AddCollaborator resolves the email to a user and grants them access.
// Owner-only. The duplicate check runs under the document lock so two
// concurrent adds of the same user cannot both pass it.
func (s *Service) AddCollaborator(ctx context.Context, docID, callerID int64, email string) (*domain.User, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if !CanManageCollaborators(doc, callerID) {
		return nil, ErrAccessDenied
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("resolve collaborator email: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.locks.Lock(docID)
	doc, err = s.docs.GetByID(ctx, docID)
	if err == nil && doc == nil {
		err = ErrNotFound
	}
	if err == nil && doc.IsCollaborator(user.ID) {
		err = ErrAlreadyCollaborator
	}
	if err == nil {
		err = s.docs.AddCollaborator(ctx, docID, user.ID)
	}
	s.locks.Unlock(docID)
	if err != nil {
		return nil, err
	}

	s.notifier.Invitation(ctx, user, s.usernameOf(ctx, callerID), doc)

	return user, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Document, error) {
	return s.docs.ListByUploader(ctx, userID)
}

func (s *Service) ListShared(ctx context.Context, userID int64) ([]domain.Document, error) {
	return s.docs.ListSharedWith(ctx, userID)
}

func (s *Service) Get(ctx context.Context, docID, callerID int64) (*domain.Document, error) {
	return s.loadAccessible(ctx, docID, callerID)
}

// RegenerateSummary re-runs the extraction and summarization chain, against
// a specific version when versionID is given and the active version
// otherwise.
func (s *Service) RegenerateSummary(ctx context.Context, docID, callerID int64, versionID *int64) (string, error) {
	doc, err := s.loadAccessible(ctx, docID, callerID)
	if err != nil {
		return "", err
	}

	version := doc.ActiveVersion
	if versionID != nil {
		version, err = s.docs.GetVersion(ctx, docID, *versionID)
		if err != nil {
			return "", err
		}
	}
	if version == nil {
		return "", ErrVersionNotFound
	}

	summary := s.enricher.GenerateSummary(ctx, version.StoragePath, version.MimeType)
	if err := s.docs.UpdateSummary(ctx, docID, summary); err != nil {
		return "", fmt.Errorf("store summary: %w", err)
	}
	return summary, nil
}

// Sentiment scores all comments on the document via the AI collaborator,
// persists the result and returns it. Unlike the summary pipeline this is an
// explicit request, so an unreachable collaborator surfaces to the caller.
func (s *Service) Sentiment(ctx context.Context, docID, callerID int64) (domain.Sentiment, error) {
	doc, err := s.loadAccessible(ctx, docID, callerID)
	if err != nil {
		return domain.Sentiment{}, err
	}

	texts, err := s.comments.ListTexts(ctx, docID)
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("load comments: %w", err)
	}

	sentiment, err := s.enricher.AnalyzeSentiment(ctx, texts)
	if err != nil {
		return domain.Sentiment{}, err
	}

	if err := s.docs.UpdateSentiment(ctx, doc.ID, sentiment); err != nil {
		return domain.Sentiment{}, fmt.Errorf("store sentiment: %w", err)
	}
	return sentiment, nil
}

func (s *Service) loadAccessible(ctx context.Context, docID, callerID int64) (*domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if !CanAccess(doc, callerID) {
		return nil, ErrAccessDenied
	}
	return doc, nil
}

func (s *Service) usernameOf(ctx context.Context, userID int64) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return "A collaborator"
	}
	return user.Username
}
