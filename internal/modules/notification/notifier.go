package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/meezumi/content-review-platform/internal/domain"
)

type userDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier renders and enqueues notification emails for the events that
// matter to other users. Enqueue failures are logged and swallowed: a broken
// queue must never fail the user-facing operation that triggered it.
type Notifier struct {
	dispatcher *Dispatcher
	users      userDirectory
	appURL     string
}

func NewNotifier(dispatcher *Dispatcher, users userDirectory, appURL string) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		users:      users,
		appURL:     appURL,
	}
}

// Mention notifies a user that they were mentioned in a comment.
func (n *Notifier) Mention(ctx context.Context, mentionedUserID int64, authorName string, doc *domain.Document) {
	user, err := n.users.GetByID(ctx, mentionedUserID)
	if err != nil || user == nil {
		log.Printf("notification: mentioned user %d not found: %v", mentionedUserID, err)
		return
	}

	job := EmailJob{
		Type:    JobMention,
		To:      user.Email,
		Subject: fmt.Sprintf("%s mentioned you in a comment", authorName),
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p><b>%s</b> mentioned you in a comment on <b>%s</b>.</p><p><a href=%q>Open the review</a></p>",
			user.Username, authorName, docName(doc), n.reviewURL(doc.ID),
		),
	}
	n.enqueue(ctx, job)
}

// Invitation notifies a user that they were added as a collaborator.
func (n *Notifier) Invitation(ctx context.Context, invitee *domain.User, inviterName string, doc *domain.Document) {
	job := EmailJob{
		Type:    JobInvitation,
		To:      invitee.Email,
		Subject: fmt.Sprintf("%s invited you to review a document", inviterName),
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p><b>%s</b> added you as a collaborator on <b>%s</b>.</p><p><a href=%q>Open the review</a></p>",
			invitee.Username, inviterName, docName(doc), n.reviewURL(doc.ID),
		),
	}
	n.enqueue(ctx, job)
}

// NewVersion notifies every collaborator except the uploading user that a
// new revision is available.
func (n *Notifier) NewVersion(ctx context.Context, doc *domain.Document, uploaderID int64, uploaderName string) {
	for _, collaborator := range doc.Collaborators {
		if collaborator.ID == uploaderID {
			continue
		}
		job := EmailJob{
			Type:    JobNewVersion,
			To:      collaborator.Email,
			Subject: fmt.Sprintf("New version of %s", docName(doc)),
			HTML: fmt.Sprintf(
				"<p>Hi %s,</p><p><b>%s</b> uploaded a new version of <b>%s</b>. The review status has been reset to In Review.</p><p><a href=%q>Open the review</a></p>",
				collaborator.Username, uploaderName, docName(doc), n.reviewURL(doc.ID),
			),
		}
		n.enqueue(ctx, job)
	}
}

// ChangesRequested notifies the document uploader that changes were
// requested. Skipped when the requester is the uploader.
func (n *Notifier) ChangesRequested(ctx context.Context, doc *domain.Document, requesterID int64, requesterName string) {
	if doc.UploaderID == requesterID {
		return
	}

	uploader, err := n.users.GetByID(ctx, doc.UploaderID)
	if err != nil || uploader == nil {
		log.Printf("notification: uploader %d not found: %v", doc.UploaderID, err)
		return
	}

	job := EmailJob{
		Type:    JobChangesRequested,
		To:      uploader.Email,
		Subject: fmt.Sprintf("Changes requested on %s", docName(doc)),
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p><b>%s</b> requested changes on <b>%s</b>.</p><p><a href=%q>Open the review</a></p>",
			uploader.Username, requesterName, docName(doc), n.reviewURL(doc.ID),
		),
	}
	n.enqueue(ctx, job)
}

func (n *Notifier) enqueue(ctx context.Context, job EmailJob) {
	if err := n.dispatcher.Enqueue(ctx, job); err != nil {
		log.Printf("notification: failed to enqueue %s job for %s: %v", job.Type, job.To, err)
	}
}

func (n *Notifier) reviewURL(docID int64) string {
	return fmt.Sprintf("%s/review/%d", n.appURL, docID)
}

func docName(doc *domain.Document) string {
	if doc.ActiveVersion != nil && doc.ActiveVersion.OriginalName != "" {
		return doc.ActiveVersion.OriginalName
	}
	return fmt.Sprintf("document #%d", doc.ID)
}
