package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/remote"
	"github.com/inkline/inkline/pkg/store/sqlite"
)

// fakeTransport is an in-memory Transport with injectable failures.
type fakeTransport struct {
	mu        sync.Mutex
	folders   []remote.FolderRow
	documents []remote.DocumentRow
	versions  []remote.VersionRow
	shares    []remote.ShareRow

	pullErr error
	pushErr error
}

func (f *fakeTransport) PullFolders(ctx context.Context, owner models.UserID) ([]remote.FolderRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return append([]remote.FolderRow(nil), f.folders...), nil
}

func (f *fakeTransport) PullDocuments(ctx context.Context, owner models.UserID) ([]remote.DocumentRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return append([]remote.DocumentRow(nil), f.documents...), nil
}

func (f *fakeTransport) PullVersions(ctx context.Context, owner models.UserID) ([]remote.VersionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return append([]remote.VersionRow(nil), f.versions...), nil
}

func (f *fakeTransport) PullShares(ctx context.Context, owner models.UserID) ([]remote.ShareRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return append([]remote.ShareRow(nil), f.shares...), nil
}

func (f *fakeTransport) PushFolders(ctx context.Context, rows []remote.FolderRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.folders = rows
	return nil
}

func (f *fakeTransport) PushDocuments(ctx context.Context, rows []remote.DocumentRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.documents = rows
	return nil
}

func (f *fakeTransport) PushVersions(ctx context.Context, rows []remote.VersionRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.versions = rows
	return nil
}

func (f *fakeTransport) PushShares(ctx context.Context, rows []remote.ShareRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.shares = rows
	return nil
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testOwner(t *testing.T) models.UserID {
	t.Helper()
	owner, err := models.ParseUserID("2e9f0a46-7c3d-4f1e-9b8a-0d6c5b4a3f21")
	require.NoError(t, err)
	return owner
}

func TestRunPullFailureLeavesLocalUntouched(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := testOwner(t)

	existing := models.Folder{
		ID:        models.NewFolderID(),
		UserID:    owner,
		Name:      "keep me",
		CreatedAt: time.Unix(0, 1000).UTC(),
		UpdatedAt: time.Unix(0, 1000).UTC(),
	}
	require.NoError(t, st.PutFolder(ctx, existing))

	ft := &fakeTransport{pullErr: errors.New("backend down")}
	rec := New(st, ft, zerolog.Nop())

	local := models.Bundle{Folders: []models.Folder{existing}}
	merged, err := rec.Run(ctx, owner, local)

	require.Error(t, err)
	var pushErr *PushError
	assert.False(t, errors.As(err, &pushErr), "pull failure must not look like a push failure")
	assert.Equal(t, models.Bundle{}, merged)

	folders, err := st.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "keep me", folders[0].Name)
}

func TestRunMergesPersistsAndPushes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := testOwner(t)

	t1 := time.Unix(0, 1_000_000).UTC()
	t2 := t1.Add(time.Second)

	docID := models.NewDocumentID()
	localDoc := models.Document{
		ID: docID, UserID: owner, Title: "stale title", ContentMD: "local body",
		Tags: models.StringSlice{}, CreatedAt: t1, UpdatedAt: t1,
	}
	localVersion := models.Version{
		ID: models.NewVersionID(), DocumentID: docID, VersionNo: 1,
		ContentMD: "snapshot", CreatedAt: t1,
	}

	remoteDoc := localDoc
	remoteDoc.Title = "fresh title"
	remoteDoc.UpdatedAt = t2
	remoteFolder := models.Folder{
		ID: models.NewFolderID(), UserID: owner, Name: "remote only",
		CreatedAt: t1, UpdatedAt: t1,
	}

	ft := &fakeTransport{
		documents: []remote.DocumentRow{remote.DocumentToRow(remoteDoc)},
		folders:   []remote.FolderRow{remote.FolderToRow(remoteFolder)},
	}
	rec := New(st, ft, zerolog.Nop())

	local := models.Bundle{
		Documents: []models.Document{localDoc},
		Versions:  []models.Version{localVersion},
	}
	merged, err := rec.Run(ctx, owner, local)
	require.NoError(t, err)

	// Strictly newer remote wins; remote-only records appear.
	require.Len(t, merged.Documents, 1)
	assert.Equal(t, "fresh title", merged.Documents[0].Title)
	require.Len(t, merged.Folders, 1)
	assert.Equal(t, "remote only", merged.Folders[0].Name)
	require.Len(t, merged.Versions, 1)

	// The replica now holds exactly the merge output.
	docs, err := st.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, merged.Documents, docs)
	folders, err := st.ListFolders(ctx)
	require.NoError(t, err)
	assert.Equal(t, merged.Folders, folders)

	// The push carried the merged set, with the owner stamped onto the
	// version rows.
	require.Len(t, ft.documents, 1)
	assert.Equal(t, "fresh title", ft.documents[0].Title)
	require.Len(t, ft.versions, 1)
	assert.Equal(t, owner, ft.versions[0].UserID)
}

func TestRunPushFailureReturnsPushErrorWithMergedState(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := testOwner(t)

	localDoc := models.Document{
		ID: models.NewDocumentID(), UserID: owner, Title: "mine",
		Tags:      models.StringSlice{},
		CreatedAt: time.Unix(0, 1000).UTC(), UpdatedAt: time.Unix(0, 1000).UTC(),
	}
	ft := &fakeTransport{pushErr: errors.New("write refused")}
	rec := New(st, ft, zerolog.Nop())

	merged, err := rec.Run(ctx, owner, models.Bundle{Documents: []models.Document{localDoc}})

	var pushErr *PushError
	require.ErrorAs(t, err, &pushErr)
	require.Len(t, merged.Documents, 1)

	// The local persist already happened and is not rolled back.
	docs, listErr := st.ListDocuments(ctx)
	require.NoError(t, listErr)
	require.Len(t, docs, 1)
	assert.Equal(t, "mine", docs[0].Title)
}

func TestRunWithNoopTransportIsLossless(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := testOwner(t)

	localDoc := models.Document{
		ID: models.NewDocumentID(), UserID: owner, Title: "offline note",
		Tags:      models.StringSlice{"a"},
		CreatedAt: time.Unix(0, 42).UTC(), UpdatedAt: time.Unix(0, 42).UTC(),
	}
	rec := New(st, remote.Noop{}, zerolog.Nop())

	merged, err := rec.Run(ctx, owner, models.Bundle{Documents: []models.Document{localDoc}})
	require.NoError(t, err)
	require.Len(t, merged.Documents, 1)
	assert.Equal(t, localDoc, merged.Documents[0])
}
