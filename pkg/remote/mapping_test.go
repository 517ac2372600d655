package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkline/inkline/pkg/models"
)

func TestFolderMappingRoundTrip(t *testing.T) {
	parent := models.NewFolderID()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	owner, err := models.ParseUserID("1a2b3c4d-5e6f-4a0b-8c1d-2e3f4a5b6c7d")
	require.NoError(t, err)

	f := models.Folder{
		ID: models.NewFolderID(), UserID: owner, ParentID: &parent,
		Name: "inbox", SortIndex: 3, CreatedAt: now, UpdatedAt: now.Add(time.Minute),
	}
	assert.Equal(t, f, FolderFromRow(FolderToRow(f)))
}

func TestDocumentMappingRoundTrip(t *testing.T) {
	folder := models.NewFolderID()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	owner, err := models.ParseUserID("1a2b3c4d-5e6f-4a0b-8c1d-2e3f4a5b6c7d")
	require.NoError(t, err)

	d := models.Document{
		ID: models.NewDocumentID(), UserID: owner, FolderID: &folder,
		Title: "note", ContentMD: "# hi", ContentHTML: "<h1>hi</h1>",
		Tags: models.StringSlice{"a", "b"}, CreatedAt: now, UpdatedAt: now,
	}
	assert.Equal(t, d, DocumentFromRow(DocumentToRow(d)))
}

func TestVersionAndShareMappingAttachOwner(t *testing.T) {
	owner, err := models.ParseUserID("1a2b3c4d-5e6f-4a0b-8c1d-2e3f4a5b6c7d")
	require.NoError(t, err)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	v := models.Version{
		ID: models.NewVersionID(), DocumentID: models.NewDocumentID(),
		VersionNo: 2, ContentMD: "snapshot", CreatedAt: now,
	}
	row := VersionToRow(v, owner)
	// The local record has no owner; the remote row must.
	assert.Equal(t, owner, row.UserID)
	assert.Equal(t, v, VersionFromRow(row))

	s := models.Share{
		ID: models.NewShareID(), DocumentID: v.DocumentID,
		Token: "tok123456789", Mode: models.ShareModeRead, CreatedAt: now,
	}
	shareRow := ShareToRow(s, owner)
	assert.Equal(t, owner, shareRow.UserID)
	assert.Equal(t, s, ShareFromRow(shareRow))
}
