package notification

// JobType is the closed set of notification kinds the platform produces.
type JobType string

const (
	JobMention          JobType = "mention"
	JobInvitation       JobType = "invitation"
	JobNewVersion       JobType = "new-version"
	JobChangesRequested JobType = "changes-requested"
)

// EmailJob is the durable queue payload. The body is pre-rendered by the
// producer; the worker only delivers it. The field is named "html" on the
// wire for compatibility with the existing worker contract.
type EmailJob struct {
	Type     JobType `json:"type"`
	To       string  `json:"to"`
	Subject  string  `json:"subject"`
	HTML     string  `json:"html"`
	Attempts int     `json:"attempts,omitempty"`
}
