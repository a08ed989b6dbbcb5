package documents

import "github.com/meezumi/content-review-platform/internal/domain"

// CanAccess is the single read/mutate authorization predicate for documents.
// It is shared by the HTTP handlers and the realtime room-join path.
func CanAccess(doc *domain.Document, userID int64) bool {
	if doc == nil {
		return false
	}
	return doc.UploaderID == userID || doc.IsCollaborator(userID)
}

// CanManageCollaborators restricts collaborator management to the uploader.
func CanManageCollaborators(doc *domain.Document, userID int64) bool {
	if doc == nil {
		return false
	}
	return doc.UploaderID == userID
}
