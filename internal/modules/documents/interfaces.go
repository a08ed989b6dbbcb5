package documents

import (
	"context"

	"github.com/meezumi/content-review-platform/internal/domain"
)

type DocumentRepo interface {
	Create(ctx context.Context, doc *domain.Document, first *domain.DocumentVersion) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	AppendVersion(ctx context.Context, docID int64, version *domain.DocumentVersion) error
	UpdateStatus(ctx context.Context, docID int64, status domain.DocumentStatus) error
	UpdateSummary(ctx context.Context, docID int64, summary string) error
	UpdateSentiment(ctx context.Context, docID int64, s domain.Sentiment) error
	AddCollaborator(ctx context.Context, docID, userID int64) error
	ListByUploader(ctx context.Context, userID int64) ([]domain.Document, error)
	ListSharedWith(ctx context.Context, userID int64) ([]domain.Document, error)
	GetVersion(ctx context.Context, docID, versionID int64) (*domain.DocumentVersion, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CommentRepo interface {
	ListTexts(ctx context.Context, docID int64) ([]string, error)
}

type Enricher interface {
	GenerateSummary(ctx context.Context, filePath, mimeType string) string
	AnalyzeSentiment(ctx context.Context, comments []string) (domain.Sentiment, error)
}

type Notifier interface {
	Invitation(ctx context.Context, invitee *domain.User, inviterName string, doc *domain.Document)
	NewVersion(ctx context.Context, doc *domain.Document, uploaderID int64, uploaderName string)
	ChangesRequested(ctx context.Context, doc *domain.Document, requesterID int64, requesterName string)
}
