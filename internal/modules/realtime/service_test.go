package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meezumi/content-review-platform/internal/domain"
	"github.com/meezumi/content-review-platform/internal/modules/documents"
)

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetVersion(ctx context.Context, docID, versionID int64) (*domain.DocumentVersion, error) {
	args := m.Called(ctx, docID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVersion), args.Error(1)
}

type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	comment.ID = 101
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Mention(ctx context.Context, mentionedUserID int64, authorName string, doc *domain.Document) {
	m.Called(ctx, mentionedUserID, authorName, doc)
}

func reviewDoc(id, uploaderID int64, collaborators ...domain.User) *domain.Document {
	return &domain.Document{
		ID:              id,
		UploaderID:      uploaderID,
		Collaborators:   collaborators,
		Status:          domain.StatusInReview,
		ActiveVersionID: 77,
	}
}

// subscribe wires a synthetic connection into the hub so broadcasts can be
// observed without a real socket.
func subscribe(hub *Hub, userID, documentID int64) *client {
	c := &client{
		userID: userID,
		send:   make(chan []byte, 16),
		rooms:  map[int64]bool{documentID: true},
	}
	hub.register(c)
	return c
}

func receivedEvents(t *testing.T, c *client) []ServerMessage {
	t.Helper()
	var events []ServerMessage
	for {
		select {
		case data := <-c.send:
			var msg ServerMessage
			require.NoError(t, json.Unmarshal(data, &msg))
			events = append(events, msg)
		default:
			return events
		}
	}
}

func TestAuthorize(t *testing.T) {
	docs := new(MockDocumentRepo)
	doc := reviewDoc(1, 10, domain.User{ID: 10}, domain.User{ID: 20})
	docs.On("GetByID", mock.Anything, int64(1)).Return(doc, nil)
	docs.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	svc := NewService(docs, new(MockCommentRepo), new(MockNotifier), NewHub())

	_, err := svc.Authorize(context.Background(), 1, 20)
	assert.NoError(t, err, "collaborator may join")

	_, err = svc.Authorize(context.Background(), 1, 99)
	assert.ErrorIs(t, err, documents.ErrAccessDenied)

	_, err = svc.Authorize(context.Background(), 404, 10)
	assert.ErrorIs(t, err, documents.ErrNotFound)
}

func TestPostComment_BroadcastsToRoomOnly(t *testing.T) {
	docs := new(MockDocumentRepo)
	comments := new(MockCommentRepo)
	hub := NewHub()
	doc := reviewDoc(1, 10, domain.User{ID: 10}, domain.User{ID: 20})

	docs.On("GetByID", mock.Anything, int64(1)).Return(doc, nil)
	comments.On("Create", mock.Anything, mock.Anything).Return(nil)

	author := subscribe(hub, 10, 1)
	listener := subscribe(hub, 20, 1)
	elsewhere := subscribe(hub, 30, 2)

	svc := NewService(docs, comments, new(MockNotifier), hub)
	comment, err := svc.PostComment(context.Background(), 10, "alice", ClientMessage{
		Type:       EventNewComment,
		DocumentID: 1,
		Text:       "first pass done",
	})
	require.NoError(t, err)

	require.NotNil(t, comment.VersionID)
	assert.Equal(t, int64(77), *comment.VersionID, "defaults to the active version")

	// The author hears their own comment back, room members hear it, other
	// rooms stay silent.
	for _, c := range []*client{author, listener} {
		events := receivedEvents(t, c)
		require.Len(t, events, 1)
		assert.Equal(t, EventCommentReceived, events[0].Type)
		assert.Equal(t, int64(1), events[0].DocumentID)
		require.NotNil(t, events[0].Comment)
		assert.Equal(t, "first pass done", events[0].Comment.Text)
	}
	assert.Empty(t, receivedEvents(t, elsewhere))
}

func TestPostComment_PinnedKeepsCoordinates(t *testing.T) {
	docs := new(MockDocumentRepo)
	comments := new(MockCommentRepo)
	doc := reviewDoc(1, 10, domain.User{ID: 10})

	docs.On("GetByID", mock.Anything, int64(1)).Return(doc, nil)
	docs.On("GetVersion", mock.Anything, int64(1), int64(55)).
		Return(&domain.DocumentVersion{ID: 55, DocumentID: 1}, nil)
	comments.On("Create", mock.Anything, mock.Anything).Return(nil)

	x, y := 42.5, 10.0
	pinnedVersion := int64(55)
	svc := NewService(docs, comments, new(MockNotifier), NewHub())
	comment, err := svc.PostComment(context.Background(), 10, "alice", ClientMessage{
		Type:        EventNewComment,
		DocumentID:  1,
		VersionID:   &pinnedVersion,
		Text:        "typo here",
		CommentType: domain.CommentPinned,
		X:           &x,
		Y:           &y,
		PageNumber:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CommentPinned, comment.Type)
	assert.Equal(t, int64(55), *comment.VersionID, "explicit version wins over active")
	assert.Equal(t, 42.5, *comment.XCoordinate)
	assert.Equal(t, 3, comment.PageNumber)
}

func TestPostComment_ForeignVersionRejected(t *testing.T) {
	docs := new(MockDocumentRepo)
	comments := new(MockCommentRepo)
	doc := reviewDoc(1, 10, domain.User{ID: 10})

	docs.On("GetByID", mock.Anything, int64(1)).Return(doc, nil)
	// Version 55 belongs to another document, so the scoped lookup misses.
	docs.On("GetVersion", mock.Anything, int64(1), int64(55)).Return(nil, nil)

	foreign := int64(55)
	svc := NewService(docs, comments, new(MockNotifier), NewHub())
	_, err := svc.PostComment(context.Background(), 10, "alice", ClientMessage{
		Type:       EventNewComment,
		DocumentID: 1,
		VersionID:  &foreign,
		Text:       "tagged wrong",
	})
	assert.ErrorIs(t, err, documents.ErrVersionNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostComment_MentionsSkipSelfAndDuplicates(t *testing.T) {
	docs := new(MockDocumentRepo)
	comments := new(MockCommentRepo)
	notifier := new(MockNotifier)
	doc := reviewDoc(1, 10, domain.User{ID: 10}, domain.User{ID: 20})

	docs.On("GetByID", mock.Anything, int64(1)).Return(doc, nil)
	comments.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Mention", mock.Anything, int64(20), "alice", doc).Return()

	svc := NewService(docs, comments, notifier, NewHub())
	_, err := svc.PostComment(context.Background(), 10, "alice", ClientMessage{
		Type:       EventNewComment,
		DocumentID: 1,
		Text:       "@[Bob](20) see this, @[Bob](20) really, @[Alice](10) knows",
	})
	require.NoError(t, err)

	notifier.AssertNumberOfCalls(t, "Mention", 1)
}

func TestPostComment_AccessDenied(t *testing.T) {
	docs := new(MockDocumentRepo)
	comments := new(MockCommentRepo)
	doc := reviewDoc(1, 10, domain.User{ID: 10})
	docs.On("GetByID", mock.Anything, int64(1)).Return(doc, nil)

	svc := NewService(docs, comments, new(MockNotifier), NewHub())
	_, err := svc.PostComment(context.Background(), 99, "mallory", ClientMessage{
		Type:       EventNewComment,
		DocumentID: 1,
		Text:       "let me in",
	})
	assert.ErrorIs(t, err, documents.ErrAccessDenied)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHubDeliversToEveryConnectionOfAUser(t *testing.T) {
	hub := NewHub()
	// The same user in two browser tabs: both connections are live, both
	// joined to room 1, and both must hear every broadcast.
	first := subscribe(hub, 10, 1)
	second := subscribe(hub, 10, 1)

	hub.BroadcastToRoom(1, NewErrorEvent("X", "hello"))

	for _, c := range []*client{first, second} {
		events := receivedEvents(t, c)
		require.Len(t, events, 1)
		assert.Equal(t, "hello", events[0].ErrorMessage)
	}

	// Closing one tab must not detach the other.
	hub.unregister(second)
	hub.BroadcastToRoom(1, NewErrorEvent("X", "again"))
	events := receivedEvents(t, first)
	require.Len(t, events, 1)
	assert.Equal(t, "again", events[0].ErrorMessage)
	assert.True(t, hub.InRoom(10, 1))
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := subscribe(hub, 10, 1)

	hub.BroadcastToRoom(1, NewErrorEvent("X", "one"))
	hub.leave(c, 1)
	hub.BroadcastToRoom(1, NewErrorEvent("X", "two"))

	events := receivedEvents(t, c)
	require.Len(t, events, 1)
	assert.Equal(t, "one", events[0].ErrorMessage)
	assert.False(t, hub.InRoom(10, 1))
}
