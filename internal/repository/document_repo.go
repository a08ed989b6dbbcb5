package repository

import (
	"context"
	"errors"
	"time"

	"github.com/meezumi/content-review-platform/internal/domain"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create persists a new document together with its first version and sets the
// active version pointer, all in one transaction.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document, first *domain.DocumentVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Collaborators.*").Create(doc).Error; err != nil {
			return err
		}
		first.DocumentID = doc.ID
		if err := tx.Create(first).Error; err != nil {
			return err
		}
		if err := tx.Model(doc).Update("active_version_id", first.ID).Error; err != nil {
			return err
		}
		doc.ActiveVersionID = first.ID
		doc.ActiveVersion = first
		doc.Versions = append(doc.Versions, *first)
		return nil
	})
}

// GetByID loads a document with its uploader, collaborators, version history
// (in upload order) and active version. Returns nil, nil when absent.
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("Collaborators").
		Preload("ActiveVersion").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("document_versions.id ASC")
		}).
		First(&doc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// AppendVersion adds a new revision, repoints the active version at it and
// resets the status to "In Review". The version insert and the pointer update
// commit together; callers serialize appends per document on top of this.
func (r *DocumentRepository) AppendVersion(ctx context.Context, docID int64, version *domain.DocumentVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version.DocumentID = docID
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Document{}).
			Where("id = ?", docID).
			Updates(map[string]interface{}{
				"active_version_id": version.ID,
				"status":            domain.StatusInReview,
			}).Error
	})
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, docID int64, status domain.DocumentStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", docID).
		Update("status", status).Error
}

func (r *DocumentRepository) UpdateSummary(ctx context.Context, docID int64, summary string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", docID).
		Update("summary", summary).Error
}

func (r *DocumentRepository) UpdateSentiment(ctx context.Context, docID int64, s domain.Sentiment) error {
	return r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", docID).
		Updates(map[string]interface{}{
			"sentiment_positive": s.Positive,
			"sentiment_negative": s.Negative,
			"sentiment_overall":  s.Overall,
		}).Error
}

func (r *DocumentRepository) AddCollaborator(ctx context.Context, docID, userID int64) error {
	return r.db.WithContext(ctx).
		Exec("INSERT INTO document_collaborators (document_id, user_id) VALUES (?, ?)", docID, userID).
		Error
}

// ListByUploader returns documents uploaded by the user, newest first.
func (r *DocumentRepository) ListByUploader(ctx context.Context, userID int64) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("ActiveVersion").
		Where("uploader_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// ListSharedWith returns documents the user collaborates on but did not upload,
// newest first.
func (r *DocumentRepository) ListSharedWith(ctx context.Context, userID int64) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("ActiveVersion").
		Joins("JOIN document_collaborators dc ON dc.document_id = documents.id").
		Where("dc.user_id = ? AND documents.uploader_id != ?", userID, userID).
		Order("documents.created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) GetVersion(ctx context.Context, docID, versionID int64) (*domain.DocumentVersion, error) {
	var v domain.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND id = ?", docID, versionID).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Document{}).Count(&count).Error
	return count, err
}

func (r *DocumentRepository) CountByStatus(ctx context.Context, status domain.DocumentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CategoryCount is one row of the documents-per-category aggregate,
// shaped for the client's chart component.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

func (r *DocumentRepository) CountPerCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Select("category AS name, COUNT(*) AS value").
		Group("category").
		Order("value DESC").
		Scan(&rows).Error
	return rows, err
}

// DailyCount is one day of upload activity.
type DailyCount struct {
	Date      string `json:"date"`
	Documents int64  `json:"documents"`
}

// UploadsPerDay returns upload counts per calendar day since the given time,
// oldest first. Uses strftime on sqlite and to_char on postgres.
func (r *DocumentRepository) UploadsPerDay(ctx context.Context, since time.Time) ([]DailyCount, error) {
	dateExpr := "to_char(created_at, 'YYYY-MM-DD')"
	if r.db.Dialector.Name() == "sqlite" {
		dateExpr = "strftime('%Y-%m-%d', created_at)"
	}

	var rows []DailyCount
	err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Select(dateExpr+" AS date, COUNT(*) AS documents").
		Where("created_at >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}
