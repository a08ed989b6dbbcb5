package domain

import "time"

type CommentType string

const (
	CommentGeneral CommentType = "General"
	CommentPinned  CommentType = "Pinned"
)

// Comment is a single review comment on a document. Comments are append-only:
// they are created once via the realtime channel and never edited or deleted.
//
// VersionID records which revision the comment was authored against. It is
// nullable only to keep rows that predate version tagging readable; new
// comments always carry it.
type Comment struct {
	ID         int64       `json:"id" gorm:"primaryKey"`
	DocumentID int64       `json:"document_id" gorm:"not null;index"`
	VersionID  *int64      `json:"version_id,omitempty" gorm:"index"`
	AuthorID   int64       `json:"author_id" gorm:"not null"`
	Author     *User       `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Text       string      `json:"text" gorm:"not null"`
	Type       CommentType `json:"type" gorm:"default:General"`

	// Pinned comments only: position as a percentage (0-100) of the
	// rendered page, and a 1-based page number.
	XCoordinate *float64 `json:"x_coordinate,omitempty"`
	YCoordinate *float64 `json:"y_coordinate,omitempty"`
	PageNumber  int      `json:"page_number" gorm:"default:1"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Comment) TableName() string {
	return "comments"
}
