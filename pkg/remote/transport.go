package remote

import (
	"context"

	"github.com/inkline/inkline/pkg/models"
)

// Transport is the request layer to the backend. Pull methods select every
// row belonging to the owner; Push methods upsert rows by primary key, all or
// nothing from the caller's point of view (any row failure fails the call).
type Transport interface {
	PullFolders(ctx context.Context, owner models.UserID) ([]FolderRow, error)
	PullDocuments(ctx context.Context, owner models.UserID) ([]DocumentRow, error)
	PullVersions(ctx context.Context, owner models.UserID) ([]VersionRow, error)
	PullShares(ctx context.Context, owner models.UserID) ([]ShareRow, error)

	PushFolders(ctx context.Context, rows []FolderRow) error
	PushDocuments(ctx context.Context, rows []DocumentRow) error
	PushVersions(ctx context.Context, rows []VersionRow) error
	PushShares(ctx context.Context, rows []ShareRow) error
}

// Noop is the transport used when no backend is configured: pulls return
// empty sets, pushes succeed without doing anything, and the workspace stays
// purely local.
type Noop struct{}

var _ Transport = Noop{}

func (Noop) PullFolders(context.Context, models.UserID) ([]FolderRow, error) { return nil, nil }
func (Noop) PullDocuments(context.Context, models.UserID) ([]DocumentRow, error) {
	return nil, nil
}
func (Noop) PullVersions(context.Context, models.UserID) ([]VersionRow, error) { return nil, nil }
func (Noop) PullShares(context.Context, models.UserID) ([]ShareRow, error)     { return nil, nil }

func (Noop) PushFolders(context.Context, []FolderRow) error     { return nil }
func (Noop) PushDocuments(context.Context, []DocumentRow) error { return nil }
func (Noop) PushVersions(context.Context, []VersionRow) error   { return nil }
func (Noop) PushShares(context.Context, []ShareRow) error       { return nil }
