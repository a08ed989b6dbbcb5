package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/meezumi/content-review-platform/internal/database"
	"github.com/meezumi/content-review-platform/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A file-backed database: every pooled connection of an in-memory DSN
	// would see its own empty schema.
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: email, PasswordHash: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedDocument(t *testing.T, repo *DocumentRepository, uploader *domain.User, category string) *domain.Document {
	t.Helper()
	doc := &domain.Document{
		UploaderID:    uploader.ID,
		Category:      category,
		Status:        domain.StatusInReview,
		Summary:       domain.DefaultSummary,
		Collaborators: []domain.User{*uploader},
		Sentiment:     domain.Sentiment{Overall: "NEUTRAL"},
	}
	first := &domain.DocumentVersion{
		Filename:     "abc-report.pdf",
		OriginalName: "report.pdf",
		StoragePath:  "uploads/report.pdf",
		MimeType:     "application/pdf",
		Size:         128,
	}
	require.NoError(t, repo.Create(context.Background(), doc, first))
	return doc
}

func TestDocumentCreate_FirstVersionBecomesActive(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	alice := seedUser(t, db, "alice", "alice@example.com")

	doc := seedDocument(t, repo, alice, "Design")

	loaded, err := repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Versions, 1)
	require.NotNil(t, loaded.ActiveVersion)
	assert.Equal(t, loaded.Versions[0].ID, loaded.ActiveVersion.ID)
	assert.Equal(t, "report.pdf", loaded.ActiveVersion.OriginalName)
	assert.Equal(t, alice.ID, loaded.Uploader.ID)
	require.Len(t, loaded.Collaborators, 1)
	assert.Equal(t, alice.ID, loaded.Collaborators[0].ID)
}

func TestAppendVersion_UpdatesActivePointerAndResetsStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	doc := seedDocument(t, repo, alice, "Design")

	require.NoError(t, repo.UpdateStatus(context.Background(), doc.ID, domain.StatusApproved))

	second := &domain.DocumentVersion{
		Filename:     "def-report-v2.pdf",
		OriginalName: "report-v2.pdf",
		StoragePath:  "uploads/report-v2.pdf",
		MimeType:     "application/pdf",
		Size:         256,
	}
	require.NoError(t, repo.AppendVersion(context.Background(), doc.ID, second))

	loaded, err := repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Versions, 2)
	// Versions stay ordered oldest first and the active pointer always
	// follows the newest one.
	assert.Equal(t, "report.pdf", loaded.Versions[0].OriginalName)
	assert.Equal(t, "report-v2.pdf", loaded.Versions[1].OriginalName)
	assert.Equal(t, loaded.Versions[1].ID, loaded.ActiveVersionID)
	assert.Equal(t, domain.StatusInReview, loaded.Status, "new revision reopens the review")
}

func TestGetByID_Missing(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)

	loaded, err := repo.GetByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAddCollaborator_ListSharedWith(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	doc := seedDocument(t, repo, alice, "Legal")

	require.NoError(t, repo.AddCollaborator(context.Background(), doc.ID, bob.ID))

	shared, err := repo.ListSharedWith(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, doc.ID, shared[0].ID)

	// The uploader's own documents never show up in their shared list
	// even though they are a collaborator row.
	ownShared, err := repo.ListSharedWith(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ownShared)

	mine, err := repo.ListByUploader(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestUpdateSentiment_Roundtrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	doc := seedDocument(t, repo, alice, "General")

	want := domain.Sentiment{Positive: 70, Negative: 30, Overall: "POSITIVE"}
	require.NoError(t, repo.UpdateSentiment(context.Background(), doc.ID, want))

	loaded, err := repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, want, loaded.Sentiment)
}

func TestGetVersion_ScopedToDocument(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	docA := seedDocument(t, repo, alice, "General")
	docB := seedDocument(t, repo, alice, "General")

	a, err := repo.GetByID(context.Background(), docA.ID)
	require.NoError(t, err)
	versionA := a.Versions[0].ID

	// Looking the version up through the wrong document must miss.
	got, err := repo.GetVersion(context.Background(), docB.ID, versionA)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetVersion(context.Background(), docA.ID, versionA)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, versionA, got.ID)
}

func TestCountPerCategory(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	seedDocument(t, repo, alice, "Design")
	seedDocument(t, repo, alice, "Design")
	seedDocument(t, repo, alice, "Legal")

	counts, err := repo.CountPerCategory(context.Background())
	require.NoError(t, err)

	byName := map[string]int64{}
	for _, c := range counts {
		byName[c.Name] = c.Value
	}
	assert.Equal(t, int64(2), byName["Design"])
	assert.Equal(t, int64(1), byName["Legal"])

	approved, err := repo.CountByStatus(context.Background(), domain.StatusApproved)
	require.NoError(t, err)
	assert.Zero(t, approved)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
