// Package models defines the workspace records and their typed identities.
//
// Records are born on the local replica and carry their identity with them;
// every ID is generated client-side so offline creation never waits on the
// backend. Folders and documents are mutable and merged by recency; versions
// and shares are append-only facts.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a set of strings as a JSON array column. Used for
// document tags in both the local replica and the remote backend.
type StringSlice []string

// Value implements the driver.Valuer interface for database storage
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Contains reports whether tag is already present.
func (s StringSlice) Contains(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// ShareMode is the access level a share token grants. Only read shares are
// issued today; write is carried through storage for forward compatibility.
type ShareMode string

const (
	ShareModeRead  ShareMode = "read"
	ShareModeWrite ShareMode = "write"
)

// Folder is a node in the workspace tree. A nil ParentID means the folder
// sits at the root.
type Folder struct {
	ID        FolderID  `json:"id"`
	UserID    UserID    `json:"userId"`
	ParentID  *FolderID `json:"parentId"`
	Name      string    `json:"name"`
	SortIndex int       `json:"sortIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document is a note. ContentHTML is a cached render of ContentMD and may be
// empty or stale; ContentMD is authoritative.
type Document struct {
	ID          DocumentID  `json:"id"`
	UserID      UserID      `json:"userId"`
	FolderID    *FolderID   `json:"folderId"`
	Title       string      `json:"title"`
	ContentMD   string      `json:"contentMd"`
	ContentHTML string      `json:"contentHtml"`
	Tags        StringSlice `json:"tags"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Version is an immutable snapshot of a document's markdown content.
// VersionNo counts from 1 per document and only ever grows.
type Version struct {
	ID         VersionID  `json:"id"`
	DocumentID DocumentID `json:"documentId"`
	VersionNo  int        `json:"versionNo"`
	ContentMD  string     `json:"contentMd"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Share grants access to a single document through an unguessable token.
// ExpiresAt is carried but never set by any current operation.
type Share struct {
	ID         ShareID    `json:"id"`
	DocumentID DocumentID `json:"documentId"`
	Token      string     `json:"token"`
	Mode       ShareMode  `json:"mode"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// Bundle is a full snapshot of one owner's workspace, the unit the
// reconciler pulls, merges, persists, and pushes.
type Bundle struct {
	Folders   []Folder
	Documents []Document
	Versions  []Version
	Shares    []Share
}
