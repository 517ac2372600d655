// Package sqlite implements the local replica on SQLite through the
// ncruces/go-sqlite3 database/sql driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/store"
)

// schema defines the four record tables. Timestamps are unix nanoseconds so
// recency comparisons survive a persist/reload round trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS folders (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    parent_id TEXT,
    name TEXT NOT NULL,
    sort_index INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    folder_id TEXT,
    title TEXT NOT NULL,
    content_md TEXT NOT NULL DEFAULT '',
    content_html TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS doc_versions (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    version_no INTEGER NOT NULL,
    content_md TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_versions_document ON doc_versions(document_id);

CREATE TABLE IF NOT EXISTS shares (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    token TEXT NOT NULL,
    mode TEXT NOT NULL DEFAULT 'read',
    created_at INTEGER NOT NULL,
    expires_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_shares_document ON shares(document_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_shares_token ON shares(token);
`

// Store is the SQLite-backed local replica. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the replica at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" stores coherent and serializes
	// writers, which SQLite wants anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Folders

func (s *Store) ListFolders(ctx context.Context) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, store.ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, parent_id, name, sort_index, created_at, updated_at
		FROM folders`)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *Store) PutFolder(ctx context.Context, folder models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}
	return putFolder(ctx, s.db, folder)
}

func (s *Store) PutFolders(ctx context.Context, folders []models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, f := range folders {
			if err := putFolder(ctx, tx, f); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) RemoveFolder(ctx context.Context, id models.FolderID) error {
	return s.exec(ctx, `DELETE FROM folders WHERE id = ?`, id.String())
}

func (s *Store) ClearFolders(ctx context.Context) error {
	return s.exec(ctx, `DELETE FROM folders`)
}

// Documents

func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, store.ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, folder_id, title, content_md, content_html, tags, created_at, updated_at
		FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) PutDocument(ctx context.Context, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}
	return putDocument(ctx, s.db, doc)
}

func (s *Store) PutDocuments(ctx context.Context, docs []models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, d := range docs {
			if err := putDocument(ctx, tx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) RemoveDocument(ctx context.Context, id models.DocumentID) error {
	return s.exec(ctx, `DELETE FROM documents WHERE id = ?`, id.String())
}

func (s *Store) ClearDocuments(ctx context.Context) error {
	return s.exec(ctx, `DELETE FROM documents`)
}

// Versions

func (s *Store) ListVersions(ctx context.Context) ([]models.Version, error) {
	return s.queryVersions(ctx, `
		SELECT id, document_id, version_no, content_md, created_at
		FROM doc_versions`)
}

func (s *Store) PutVersion(ctx context.Context, version models.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}
	return putVersion(ctx, s.db, version)
}

func (s *Store) PutVersions(ctx context.Context, versions []models.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, v := range versions {
			if err := putVersion(ctx, tx, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) RemoveVersion(ctx context.Context, id models.VersionID) error {
	return s.exec(ctx, `DELETE FROM doc_versions WHERE id = ?`, id.String())
}

func (s *Store) ClearVersions(ctx context.Context) error {
	return s.exec(ctx, `DELETE FROM doc_versions`)
}

func (s *Store) VersionsByDocument(ctx context.Context, docID models.DocumentID) ([]models.Version, error) {
	return s.queryVersions(ctx, `
		SELECT id, document_id, version_no, content_md, created_at
		FROM doc_versions WHERE document_id = ?
		ORDER BY version_no`, docID.String())
}

// Shares

func (s *Store) ListShares(ctx context.Context) ([]models.Share, error) {
	return s.queryShares(ctx, `
		SELECT id, document_id, token, mode, created_at, expires_at
		FROM shares`)
}

func (s *Store) PutShare(ctx context.Context, share models.Share) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}
	return putShare(ctx, s.db, share)
}

func (s *Store) PutShares(ctx context.Context, shares []models.Share) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, sh := range shares {
			if err := putShare(ctx, tx, sh); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) RemoveShare(ctx context.Context, id models.ShareID) error {
	return s.exec(ctx, `DELETE FROM shares WHERE id = ?`, id.String())
}

func (s *Store) ClearShares(ctx context.Context) error {
	return s.exec(ctx, `DELETE FROM shares`)
}

func (s *Store) SharesByDocument(ctx context.Context, docID models.DocumentID) ([]models.Share, error) {
	return s.queryShares(ctx, `
		SELECT id, document_id, token, mode, created_at, expires_at
		FROM shares WHERE document_id = ?
		ORDER BY created_at`, docID.String())
}

func (s *Store) ShareByToken(ctx context.Context, token string) (*models.Share, error) {
	shares, err := s.queryShares(ctx, `
		SELECT id, document_id, token, mode, created_at, expires_at
		FROM shares WHERE token = ?`, token)
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, nil
	}
	return &shares[0], nil
}

// Internals

type rowScanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return store.ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store exec: %w", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func putFolder(ctx context.Context, db execer, f models.Folder) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO folders (id, user_id, parent_id, name, sort_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			parent_id = excluded.parent_id,
			name = excluded.name,
			sort_index = excluded.sort_index,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		f.ID.String(), f.UserID.String(), folderIDArg(f.ParentID), f.Name, f.SortIndex,
		f.CreatedAt.UnixNano(), f.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("upserting folder %s: %w", f.ID, err)
	}
	return nil
}

func putDocument(ctx context.Context, db execer, d models.Document) error {
	tags, err := d.Tags.Value()
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO documents (id, user_id, folder_id, title, content_md, content_html, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			folder_id = excluded.folder_id,
			title = excluded.title,
			content_md = excluded.content_md,
			content_html = excluded.content_html,
			tags = excluded.tags,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		d.ID.String(), d.UserID.String(), folderIDArg(d.FolderID), d.Title, d.ContentMD,
		d.ContentHTML, tags, d.CreatedAt.UnixNano(), d.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", d.ID, err)
	}
	return nil
}

func putVersion(ctx context.Context, db execer, v models.Version) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO doc_versions (id, document_id, version_no, content_md, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			version_no = excluded.version_no,
			content_md = excluded.content_md,
			created_at = excluded.created_at`,
		v.ID.String(), v.DocumentID.String(), v.VersionNo, v.ContentMD, v.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("upserting version %s: %w", v.ID, err)
	}
	return nil
}

func putShare(ctx context.Context, db execer, sh models.Share) error {
	var expires any
	if sh.ExpiresAt != nil {
		expires = sh.ExpiresAt.UnixNano()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO shares (id, document_id, token, mode, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			token = excluded.token,
			mode = excluded.mode,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		sh.ID.String(), sh.DocumentID.String(), sh.Token, string(sh.Mode),
		sh.CreatedAt.UnixNano(), expires)
	if err != nil {
		return fmt.Errorf("upserting share %s: %w", sh.ID, err)
	}
	return nil
}

func (s *Store) queryVersions(ctx context.Context, query string, args ...any) ([]models.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, store.ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	var versions []models.Version
	for rows.Next() {
		var v models.Version
		var createdAt int64
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.VersionNo, &v.ContentMD, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		v.CreatedAt = time.Unix(0, createdAt).UTC()
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *Store) queryShares(ctx context.Context, query string, args ...any) ([]models.Share, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, store.ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var sh models.Share
		var mode string
		var createdAt int64
		var expiresAt sql.NullInt64
		if err := rows.Scan(&sh.ID, &sh.DocumentID, &sh.Token, &mode, &createdAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("scanning share: %w", err)
		}
		sh.Mode = models.ShareMode(mode)
		sh.CreatedAt = time.Unix(0, createdAt).UTC()
		if expiresAt.Valid {
			t := time.Unix(0, expiresAt.Int64).UTC()
			sh.ExpiresAt = &t
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

func scanFolder(row rowScanner) (models.Folder, error) {
	var f models.Folder
	var parent sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(&f.ID, &f.UserID, &parent, &f.Name, &f.SortIndex, &createdAt, &updatedAt); err != nil {
		return models.Folder{}, fmt.Errorf("scanning folder: %w", err)
	}
	if parent.Valid {
		id, err := models.ParseFolderID(parent.String)
		if err != nil {
			return models.Folder{}, err
		}
		f.ParentID = &id
	}
	f.CreatedAt = time.Unix(0, createdAt).UTC()
	f.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return f, nil
}

func scanDocument(row rowScanner) (models.Document, error) {
	var d models.Document
	var folder sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(&d.ID, &d.UserID, &folder, &d.Title, &d.ContentMD, &d.ContentHTML, &d.Tags, &createdAt, &updatedAt); err != nil {
		return models.Document{}, fmt.Errorf("scanning document: %w", err)
	}
	if folder.Valid {
		id, err := models.ParseFolderID(folder.String)
		if err != nil {
			return models.Document{}, err
		}
		d.FolderID = &id
	}
	d.CreatedAt = time.Unix(0, createdAt).UTC()
	d.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return d, nil
}

func folderIDArg(id *models.FolderID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
