package domain

import "time"

type DocumentStatus string

const (
	StatusInReview        DocumentStatus = "In Review"
	StatusApproved        DocumentStatus = "Approved"
	StatusRequiresChanges DocumentStatus = "Requires Changes"
)

// ValidStatus reports whether s is one of the three allowed document statuses.
func ValidStatus(s DocumentStatus) bool {
	switch s {
	case StatusInReview, StatusApproved, StatusRequiresChanges:
		return true
	}
	return false
}

const (
	DefaultCategory = "General"
	DefaultSummary  = "Summary not yet generated."
)

// Sentiment holds the aggregated comment sentiment for a document.
// Positive/Negative are percentages (0-100).
type Sentiment struct {
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Overall  string `json:"overall"`
}

// DocumentVersion is one uploaded revision of a document.
// Immutable once created.
type DocumentVersion struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	DocumentID   int64     `json:"document_id" gorm:"not null;index"`
	Filename     string    `json:"filename" gorm:"not null"`
	StoragePath  string    `json:"path" gorm:"not null"`
	OriginalName string    `json:"original_name" gorm:"not null"`
	MimeType     string    `json:"mimetype" gorm:"not null"`
	Size         int64     `json:"size" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}

// Document is a reviewed file with its full revision history.
//
// Versions is append-only in upload order; ActiveVersion always points at the
// most recent entry. Uploading a new version resets Status to "In Review".
type Document struct {
	ID              int64             `json:"id" gorm:"primaryKey"`
	UploaderID      int64             `json:"uploader_id" gorm:"not null;index"`
	Uploader        *User             `json:"uploader,omitempty" gorm:"foreignKey:UploaderID"`
	Collaborators   []User            `json:"collaborators" gorm:"many2many:document_collaborators"`
	Category        string            `json:"category" gorm:"default:General"`
	Status          DocumentStatus    `json:"status" gorm:"default:In Review"`
	Summary         string            `json:"summary"`
	Sentiment       Sentiment         `json:"sentiment" gorm:"embedded;embeddedPrefix:sentiment_"`
	ActiveVersionID int64             `json:"-"`
	ActiveVersion   *DocumentVersion  `json:"active_version,omitempty" gorm:"foreignKey:ActiveVersionID"`
	Versions        []DocumentVersion `json:"versions" gorm:"foreignKey:DocumentID"`
	CreatedAt       time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}

// IsCollaborator reports whether userID is in the collaborator list.
// The uploader is always added as a collaborator on creation, but is
// checked separately by the permission guard anyway.
func (d *Document) IsCollaborator(userID int64) bool {
	for _, u := range d.Collaborators {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// CollaboratorIDs returns the ids of all collaborators, in list order.
func (d *Document) CollaboratorIDs() []int64 {
	ids := make([]int64, 0, len(d.Collaborators))
	for _, u := range d.Collaborators {
		ids = append(ids, u.ID)
	}
	return ids
}
