// Package store defines the local replica contract. The replica is the
// durable source of truth between sessions; the workspace controller writes
// through to it on every mutation and the reconciler overwrites it with each
// merge result.
package store

import (
	"context"
	"errors"

	"github.com/inkline/inkline/pkg/models"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Store is the local replica: one logical table per record kind, keyed by
// identity, with secondary lookups for versions and shares.
//
// Put methods upsert by identity and are idempotent. The bulk Put methods are
// all-or-nothing within one call; no atomic unit spans more than one kind.
// Lookup methods returning a single record report absence as (nil, nil).
type Store interface {
	ListFolders(ctx context.Context) ([]models.Folder, error)
	PutFolder(ctx context.Context, folder models.Folder) error
	PutFolders(ctx context.Context, folders []models.Folder) error
	RemoveFolder(ctx context.Context, id models.FolderID) error
	ClearFolders(ctx context.Context) error

	ListDocuments(ctx context.Context) ([]models.Document, error)
	PutDocument(ctx context.Context, doc models.Document) error
	PutDocuments(ctx context.Context, docs []models.Document) error
	RemoveDocument(ctx context.Context, id models.DocumentID) error
	ClearDocuments(ctx context.Context) error

	ListVersions(ctx context.Context) ([]models.Version, error)
	PutVersion(ctx context.Context, version models.Version) error
	PutVersions(ctx context.Context, versions []models.Version) error
	RemoveVersion(ctx context.Context, id models.VersionID) error
	ClearVersions(ctx context.Context) error
	VersionsByDocument(ctx context.Context, docID models.DocumentID) ([]models.Version, error)

	ListShares(ctx context.Context) ([]models.Share, error)
	PutShare(ctx context.Context, share models.Share) error
	PutShares(ctx context.Context, shares []models.Share) error
	RemoveShare(ctx context.Context, id models.ShareID) error
	ClearShares(ctx context.Context) error
	SharesByDocument(ctx context.Context, docID models.DocumentID) ([]models.Share, error)
	ShareByToken(ctx context.Context, token string) (*models.Share, error)

	Close() error
}
