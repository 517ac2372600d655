package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/remote"
	"github.com/inkline/inkline/pkg/store"
)

// PushError reports a cycle that merged and persisted locally but failed to
// push the result to the backend. The merged bundle it accompanies is valid
// and already durable; only the remote side is behind.
type PushError struct {
	Err error
}

func (e *PushError) Error() string { return fmt.Sprintf("push failed: %v", e.Err) }
func (e *PushError) Unwrap() error { return e.Err }

// Reconciler runs full pull/merge/persist/push cycles. Cycles are serialized
// by an internal lock so an overlapping trigger waits instead of racing.
// The reconciler keeps no state between runs.
type Reconciler struct {
	mu    sync.Mutex
	store store.Store
	rt    remote.Transport
	log   zerolog.Logger
}

func New(st store.Store, rt remote.Transport, log zerolog.Logger) *Reconciler {
	return &Reconciler{store: st, rt: rt, log: log}
}

// Run executes one cycle for owner against the given in-memory snapshot and
// returns the merged bundle.
//
// A pull failure aborts before anything is written; the returned bundle is
// zero and local state is untouched. After a successful merge the bundle is
// bulk-put to the local store kind by kind and then pushed. A push failure is
// returned as a *PushError together with the merged bundle, which the caller
// should still promote: the local side is ahead, not wrong.
func (r *Reconciler) Run(ctx context.Context, owner models.UserID, local models.Bundle) (models.Bundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, err := r.pull(ctx, owner)
	if err != nil {
		return models.Bundle{}, fmt.Errorf("pull failed: %w", err)
	}

	merged := MergeBundles(local, rem)

	if err := r.persist(ctx, merged); err != nil {
		return models.Bundle{}, fmt.Errorf("persisting merge result: %w", err)
	}

	if err := r.push(ctx, owner, merged); err != nil {
		r.log.Warn().Err(err).Str("user", owner.String()).Msg("push failed after local persist")
		return merged, &PushError{Err: err}
	}

	r.log.Debug().
		Str("user", owner.String()).
		Int("folders", len(merged.Folders)).
		Int("documents", len(merged.Documents)).
		Int("versions", len(merged.Versions)).
		Int("shares", len(merged.Shares)).
		Msg("sync cycle complete")
	return merged, nil
}

func (r *Reconciler) pull(ctx context.Context, owner models.UserID) (models.Bundle, error) {
	folderRows, err := r.rt.PullFolders(ctx, owner)
	if err != nil {
		return models.Bundle{}, err
	}
	docRows, err := r.rt.PullDocuments(ctx, owner)
	if err != nil {
		return models.Bundle{}, err
	}
	versionRows, err := r.rt.PullVersions(ctx, owner)
	if err != nil {
		return models.Bundle{}, err
	}
	shareRows, err := r.rt.PullShares(ctx, owner)
	if err != nil {
		return models.Bundle{}, err
	}

	var b models.Bundle
	for _, row := range folderRows {
		b.Folders = append(b.Folders, remote.FolderFromRow(row))
	}
	for _, row := range docRows {
		b.Documents = append(b.Documents, remote.DocumentFromRow(row))
	}
	for _, row := range versionRows {
		b.Versions = append(b.Versions, remote.VersionFromRow(row))
	}
	for _, row := range shareRows {
		b.Shares = append(b.Shares, remote.ShareFromRow(row))
	}
	return b, nil
}

// persist bulk-puts each kind in its own atomic unit. A crash between kinds
// leaves the replica mixed until the next successful cycle; no transaction
// spans kinds.
func (r *Reconciler) persist(ctx context.Context, b models.Bundle) error {
	if err := r.store.PutFolders(ctx, b.Folders); err != nil {
		return err
	}
	if err := r.store.PutDocuments(ctx, b.Documents); err != nil {
		return err
	}
	if err := r.store.PutVersions(ctx, b.Versions); err != nil {
		return err
	}
	return r.store.PutShares(ctx, b.Shares)
}

func (r *Reconciler) push(ctx context.Context, owner models.UserID, b models.Bundle) error {
	folderRows := make([]remote.FolderRow, 0, len(b.Folders))
	for _, f := range b.Folders {
		folderRows = append(folderRows, remote.FolderToRow(f))
	}
	docRows := make([]remote.DocumentRow, 0, len(b.Documents))
	for _, d := range b.Documents {
		docRows = append(docRows, remote.DocumentToRow(d))
	}
	versionRows := make([]remote.VersionRow, 0, len(b.Versions))
	for _, v := range b.Versions {
		versionRows = append(versionRows, remote.VersionToRow(v, owner))
	}
	shareRows := make([]remote.ShareRow, 0, len(b.Shares))
	for _, s := range b.Shares {
		shareRows = append(shareRows, remote.ShareToRow(s, owner))
	}

	if err := r.rt.PushFolders(ctx, folderRows); err != nil {
		return err
	}
	if err := r.rt.PushDocuments(ctx, docRows); err != nil {
		return err
	}
	if err := r.rt.PushVersions(ctx, versionRows); err != nil {
		return err
	}
	return r.rt.PushShares(ctx, shareRows)
}
