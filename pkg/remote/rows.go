// Package remote is the stateless mapping and request layer for the hosted
// backend. It owns the remote row shapes, the per-kind conversions between
// local records and rows, and the Transport interface the reconciler speaks.
package remote

import (
	"time"

	"github.com/inkline/inkline/pkg/models"
)

// FolderRow is the backend representation of a folder.
type FolderRow struct {
	ID        models.FolderID  `gorm:"type:uuid;primaryKey" json:"id" cbor:"id"`
	UserID    models.UserID    `gorm:"type:uuid;not null;index" json:"user_id" cbor:"user_id"`
	ParentID  *models.FolderID `gorm:"type:uuid" json:"parent_id" cbor:"parent_id"`
	Name      string           `gorm:"not null" json:"name" cbor:"name"`
	SortIndex int              `gorm:"not null;default:0" json:"sort_index" cbor:"sort_index"`
	CreatedAt time.Time        `json:"created_at" cbor:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" cbor:"updated_at"`
}

func (FolderRow) TableName() string { return "folders" }

// DocumentRow is the backend representation of a document.
type DocumentRow struct {
	ID          models.DocumentID  `gorm:"type:uuid;primaryKey" json:"id" cbor:"id"`
	UserID      models.UserID      `gorm:"type:uuid;not null;index" json:"user_id" cbor:"user_id"`
	FolderID    *models.FolderID   `gorm:"type:uuid" json:"folder_id" cbor:"folder_id"`
	Title       string             `gorm:"not null" json:"title" cbor:"title"`
	ContentMD   string             `gorm:"column:content_md" json:"content_md" cbor:"content_md"`
	ContentHTML string             `gorm:"column:content_html" json:"content_html" cbor:"content_html"`
	Tags        models.StringSlice `gorm:"type:jsonb" json:"tags" cbor:"tags"`
	CreatedAt   time.Time          `json:"created_at" cbor:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" cbor:"updated_at"`
}

func (DocumentRow) TableName() string { return "documents" }

// VersionRow is the backend representation of a document version. Unlike the
// local record it carries the owner, attached during the to-remote mapping.
type VersionRow struct {
	ID         models.VersionID  `gorm:"type:uuid;primaryKey" json:"id" cbor:"id"`
	UserID     models.UserID     `gorm:"type:uuid;not null;index" json:"user_id" cbor:"user_id"`
	DocumentID models.DocumentID `gorm:"type:uuid;not null;index" json:"document_id" cbor:"document_id"`
	VersionNo  int               `gorm:"not null" json:"version_no" cbor:"version_no"`
	ContentMD  string            `gorm:"column:content_md" json:"content_md" cbor:"content_md"`
	CreatedAt  time.Time         `json:"created_at" cbor:"created_at"`
}

func (VersionRow) TableName() string { return "doc_versions" }

// ShareRow is the backend representation of a share. Carries the owner like
// VersionRow.
type ShareRow struct {
	ID         models.ShareID    `gorm:"type:uuid;primaryKey" json:"id" cbor:"id"`
	UserID     models.UserID     `gorm:"type:uuid;not null;index" json:"user_id" cbor:"user_id"`
	DocumentID models.DocumentID `gorm:"type:uuid;not null;index" json:"document_id" cbor:"document_id"`
	Token      string            `gorm:"uniqueIndex;not null" json:"token" cbor:"token"`
	Mode       string            `gorm:"not null;default:read" json:"mode" cbor:"mode"`
	CreatedAt  time.Time         `json:"created_at" cbor:"created_at"`
	ExpiresAt  *time.Time        `json:"expires_at" cbor:"expires_at"`
}

func (ShareRow) TableName() string { return "shares" }
