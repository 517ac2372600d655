package remote

import "github.com/inkline/inkline/pkg/models"

// The mapping functions are pure. To-remote mappings take the owner
// explicitly where the local record does not carry one; from-remote mappings
// drop backend-only fields.

func FolderToRow(f models.Folder) FolderRow {
	return FolderRow{
		ID:        f.ID,
		UserID:    f.UserID,
		ParentID:  f.ParentID,
		Name:      f.Name,
		SortIndex: f.SortIndex,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func FolderFromRow(r FolderRow) models.Folder {
	return models.Folder{
		ID:        r.ID,
		UserID:    r.UserID,
		ParentID:  r.ParentID,
		Name:      r.Name,
		SortIndex: r.SortIndex,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func DocumentToRow(d models.Document) DocumentRow {
	return DocumentRow{
		ID:          d.ID,
		UserID:      d.UserID,
		FolderID:    d.FolderID,
		Title:       d.Title,
		ContentMD:   d.ContentMD,
		ContentHTML: d.ContentHTML,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func DocumentFromRow(r DocumentRow) models.Document {
	return models.Document{
		ID:          r.ID,
		UserID:      r.UserID,
		FolderID:    r.FolderID,
		Title:       r.Title,
		ContentMD:   r.ContentMD,
		ContentHTML: r.ContentHTML,
		Tags:        r.Tags,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func VersionToRow(v models.Version, owner models.UserID) VersionRow {
	return VersionRow{
		ID:         v.ID,
		UserID:     owner,
		DocumentID: v.DocumentID,
		VersionNo:  v.VersionNo,
		ContentMD:  v.ContentMD,
		CreatedAt:  v.CreatedAt,
	}
}

func VersionFromRow(r VersionRow) models.Version {
	return models.Version{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		VersionNo:  r.VersionNo,
		ContentMD:  r.ContentMD,
		CreatedAt:  r.CreatedAt,
	}
}

func ShareToRow(s models.Share, owner models.UserID) ShareRow {
	return ShareRow{
		ID:         s.ID,
		UserID:     owner,
		DocumentID: s.DocumentID,
		Token:      s.Token,
		Mode:       string(s.Mode),
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
	}
}

func ShareFromRow(r ShareRow) models.Share {
	return models.Share{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		Token:      r.Token,
		Mode:       models.ShareMode(r.Mode),
		CreatedAt:  r.CreatedAt,
		ExpiresAt:  r.ExpiresAt,
	}
}
