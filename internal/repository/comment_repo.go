package repository

import (
	"context"

	"github.com/meezumi/content-review-platform/internal/domain"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create appends a comment and reloads it with the author resolved, so the
// caller gets back the record exactly as readers will see it.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Author").
		First(comment, comment.ID).Error
}

// ListForVersion returns comments for the given document version in creation
// order. Rows with no version id predate version tagging and are included for
// backward compatibility.
func (r *CommentRepository) ListForVersion(ctx context.Context, docID, versionID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("document_id = ?", docID).
		Where("version_id = ? OR version_id IS NULL", versionID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// ListForVersionExact returns only the comments tagged with the given
// version. Unlike ListForVersion, untagged legacy rows are excluded: a
// request for a specific revision wants exactly what was said on it.
func (r *CommentRepository) ListForVersionExact(ctx context.Context, docID, versionID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("document_id = ?", docID).
		Where("version_id = ?", versionID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// ListTexts returns the raw text of every comment on the document, in
// creation order. Used by the sentiment pipeline.
func (r *CommentRepository) ListTexts(ctx context.Context, docID int64) ([]string, error) {
	var texts []string
	err := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("document_id = ?", docID).
		Order("created_at ASC, id ASC").
		Pluck("text", &texts).Error
	return texts, err
}

func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).Count(&count).Error
	return count, err
}
