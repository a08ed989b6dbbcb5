package documents

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AddCollaboratorRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RegenerateSummaryRequest struct {
	VersionID *int64 `json:"version_id"`
}
