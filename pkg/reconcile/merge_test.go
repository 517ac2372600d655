package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkline/inkline/pkg/models"
)

var mergeEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func folderAt(id models.FolderID, name string, updated time.Time) models.Folder {
	return models.Folder{
		ID:        id,
		Name:      name,
		CreatedAt: mergeEpoch,
		UpdatedAt: updated,
	}
}

func docAt(id models.DocumentID, title string, updated time.Time) models.Document {
	return models.Document{
		ID:        id,
		Title:     title,
		CreatedAt: mergeEpoch,
		UpdatedAt: updated,
	}
}

func TestMergeKeepsLocalWhenRemoteOlderOrEqual(t *testing.T) {
	id := models.NewFolderID()
	local := models.Bundle{Folders: []models.Folder{folderAt(id, "local", mergeEpoch)}}

	older := models.Bundle{Folders: []models.Folder{folderAt(id, "remote", mergeEpoch.Add(-time.Minute))}}
	out := MergeBundles(local, older)
	require.Len(t, out.Folders, 1)
	assert.Equal(t, "local", out.Folders[0].Name)

	// Equal timestamps are not "strictly newer": local still wins.
	equal := models.Bundle{Folders: []models.Folder{folderAt(id, "remote", mergeEpoch)}}
	out = MergeBundles(local, equal)
	require.Len(t, out.Folders, 1)
	assert.Equal(t, "local", out.Folders[0].Name)
}

func TestMergeAdoptsStrictlyNewerRemote(t *testing.T) {
	id := models.NewDocumentID()
	local := models.Bundle{Documents: []models.Document{docAt(id, "local", mergeEpoch)}}
	remote := models.Bundle{Documents: []models.Document{docAt(id, "remote", mergeEpoch.Add(time.Second))}}

	out := MergeBundles(local, remote)
	require.Len(t, out.Documents, 1)
	assert.Equal(t, "remote", out.Documents[0].Title)
}

func TestMergeKeepsOneSidedRecords(t *testing.T) {
	localOnly := folderAt(models.NewFolderID(), "local-only", mergeEpoch)
	remoteOnly := folderAt(models.NewFolderID(), "remote-only", mergeEpoch)

	out := MergeBundles(
		models.Bundle{Folders: []models.Folder{localOnly}},
		models.Bundle{Folders: []models.Folder{remoteOnly}},
	)
	require.Len(t, out.Folders, 2)
	assert.Equal(t, localOnly, out.Folders[0])
	assert.Equal(t, remoteOnly, out.Folders[1])
}

func TestMergeVersionsAndSharesRemoteWins(t *testing.T) {
	vid := models.NewVersionID()
	sid := models.NewShareID()

	local := models.Bundle{
		Versions: []models.Version{{ID: vid, VersionNo: 1, ContentMD: "local", CreatedAt: mergeEpoch.Add(time.Hour)}},
		Shares:   []models.Share{{ID: sid, Token: "localtoken00", Mode: models.ShareModeRead, CreatedAt: mergeEpoch.Add(time.Hour)}},
	}
	// Remote copies are older, and still must win: these kinds carry no
	// recency rule at all.
	remote := models.Bundle{
		Versions: []models.Version{{ID: vid, VersionNo: 1, ContentMD: "remote", CreatedAt: mergeEpoch}},
		Shares:   []models.Share{{ID: sid, Token: "remotetoken0", Mode: models.ShareModeRead, CreatedAt: mergeEpoch}},
	}

	out := MergeBundles(local, remote)
	require.Len(t, out.Versions, 1)
	assert.Equal(t, "remote", out.Versions[0].ContentMD)
	require.Len(t, out.Shares, 1)
	assert.Equal(t, "remotetoken0", out.Shares[0].Token)
}

func TestMergeNeverDeletes(t *testing.T) {
	local := models.Bundle{
		Folders:   []models.Folder{folderAt(models.NewFolderID(), "a", mergeEpoch)},
		Documents: []models.Document{docAt(models.NewDocumentID(), "b", mergeEpoch)},
	}

	out := MergeBundles(local, models.Bundle{})
	assert.Len(t, out.Folders, 1)
	assert.Len(t, out.Documents, 1)

	out = MergeBundles(models.Bundle{}, local)
	assert.Len(t, out.Folders, 1)
	assert.Len(t, out.Documents, 1)
}

func TestMergeIsIdempotent(t *testing.T) {
	shared := models.NewFolderID()
	local := models.Bundle{Folders: []models.Folder{
		folderAt(shared, "local", mergeEpoch),
		folderAt(models.NewFolderID(), "only-local", mergeEpoch),
	}}
	remote := models.Bundle{Folders: []models.Folder{
		folderAt(shared, "remote", mergeEpoch.Add(time.Second)),
		folderAt(models.NewFolderID(), "only-remote", mergeEpoch),
	}}

	once := MergeBundles(local, remote)
	twice := MergeBundles(once, remote)
	assert.Equal(t, once, twice)
}

func TestMergeIdentitySetIsOrderIndependent(t *testing.T) {
	shared := models.NewDocumentID()
	a := models.Bundle{Documents: []models.Document{
		docAt(shared, "a", mergeEpoch),
		docAt(models.NewDocumentID(), "only-a", mergeEpoch),
	}}
	b := models.Bundle{Documents: []models.Document{
		docAt(shared, "b", mergeEpoch.Add(time.Second)),
		docAt(models.NewDocumentID(), "only-b", mergeEpoch),
	}}

	ab := MergeBundles(a, b)
	ba := MergeBundles(b, a)

	ids := func(docs []models.Document) map[models.DocumentID]string {
		m := make(map[models.DocumentID]string)
		for _, d := range docs {
			m[d.ID] = d.Title
		}
		return m
	}
	// Same identity set either way, and the shared identity resolves to the
	// newer side in both directions.
	require.Equal(t, len(ab.Documents), len(ba.Documents))
	assert.Equal(t, ids(ab.Documents), ids(ba.Documents))
	assert.Equal(t, "b", ids(ab.Documents)[shared])
}
