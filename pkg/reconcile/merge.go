// Package reconcile implements the pull/merge/push cycle between the local
// replica and the remote backend.
package reconcile

import "github.com/inkline/inkline/pkg/models"

// MergeBundles combines a local and a remote snapshot of one owner's
// workspace. Folders and documents merge whole-record by recency: the local
// copy wins unless the remote copy is strictly newer. Versions and shares are
// append-only facts, so a remote copy always replaces a local one with the
// same identity. Records present on only one side are kept; merging never
// deletes.
//
// The result preserves local order with remote-only records appended, so the
// function is deterministic for a given input.
func MergeBundles(local, rem models.Bundle) models.Bundle {
	return models.Bundle{
		Folders: mergeByKey(local.Folders, rem.Folders,
			func(f models.Folder) models.FolderID { return f.ID },
			func(r, l models.Folder) bool { return r.UpdatedAt.After(l.UpdatedAt) }),
		Documents: mergeByKey(local.Documents, rem.Documents,
			func(d models.Document) models.DocumentID { return d.ID },
			func(r, l models.Document) bool { return r.UpdatedAt.After(l.UpdatedAt) }),
		Versions: mergeByKey(local.Versions, rem.Versions,
			func(v models.Version) models.VersionID { return v.ID },
			func(models.Version, models.Version) bool { return true }),
		Shares: mergeByKey(local.Shares, rem.Shares,
			func(s models.Share) models.ShareID { return s.ID },
			func(models.Share, models.Share) bool { return true }),
	}
}

// mergeByKey merges remote records into local ones. remoteWins decides
// whether a remote record replaces the local record sharing its key.
func mergeByKey[T any, K comparable](local, remote []T, key func(T) K, remoteWins func(rem, loc T) bool) []T {
	out := make([]T, len(local), len(local)+len(remote))
	copy(out, local)

	index := make(map[K]int, len(local))
	for i, rec := range local {
		index[key(rec)] = i
	}

	for _, rec := range remote {
		if i, ok := index[key(rec)]; ok {
			if remoteWins(rec, out[i]) {
				out[i] = rec
			}
			continue
		}
		index[key(rec)] = len(out)
		out = append(out, rec)
	}
	return out
}
