// Package postgres implements the remote transport against a PostgreSQL
// backend using GORM. This is the concrete transport for hosted deployments;
// unconfigured installs use the no-op transport instead.
package postgres

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/remote"
)

// Transport is the PostgreSQL-backed remote transport.
type Transport struct {
	db *gorm.DB
}

var _ remote.Transport = (*Transport)(nil)

// New connects to the backend at dsn.
func New(dsn string) (*Transport, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Transport{db: db}, nil
}

// NewFromDB wraps an existing GORM handle. Used by tests.
func NewFromDB(db *gorm.DB) *Transport {
	return &Transport{db: db}
}

// Migrate creates the four backend tables if they don't already exist. Safe
// to run repeatedly.
func (t *Transport) Migrate(ctx context.Context) error {
	return t.db.WithContext(ctx).AutoMigrate(
		&remote.FolderRow{},
		&remote.DocumentRow{},
		&remote.VersionRow{},
		&remote.ShareRow{},
	)
}

// Close closes the underlying connection pool.
func (t *Transport) Close() error {
	sqlDB, err := t.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (t *Transport) PullFolders(ctx context.Context, owner models.UserID) ([]remote.FolderRow, error) {
	var rows []remote.FolderRow
	if err := t.db.WithContext(ctx).Where("user_id = ?", owner.String()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("pulling folders: %w", err)
	}
	return rows, nil
}

func (t *Transport) PullDocuments(ctx context.Context, owner models.UserID) ([]remote.DocumentRow, error) {
	var rows []remote.DocumentRow
	if err := t.db.WithContext(ctx).Where("user_id = ?", owner.String()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("pulling documents: %w", err)
	}
	return rows, nil
}

func (t *Transport) PullVersions(ctx context.Context, owner models.UserID) ([]remote.VersionRow, error) {
	var rows []remote.VersionRow
	if err := t.db.WithContext(ctx).Where("user_id = ?", owner.String()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("pulling versions: %w", err)
	}
	return rows, nil
}

func (t *Transport) PullShares(ctx context.Context, owner models.UserID) ([]remote.ShareRow, error) {
	var rows []remote.ShareRow
	if err := t.db.WithContext(ctx).Where("user_id = ?", owner.String()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("pulling shares: %w", err)
	}
	return rows, nil
}

func (t *Transport) PushFolders(ctx context.Context, rows []remote.FolderRow) error {
	return t.upsert(ctx, &rows, len(rows), "folders")
}

func (t *Transport) PushDocuments(ctx context.Context, rows []remote.DocumentRow) error {
	return t.upsert(ctx, &rows, len(rows), "documents")
}

func (t *Transport) PushVersions(ctx context.Context, rows []remote.VersionRow) error {
	return t.upsert(ctx, &rows, len(rows), "versions")
}

func (t *Transport) PushShares(ctx context.Context, rows []remote.ShareRow) error {
	return t.upsert(ctx, &rows, len(rows), "shares")
}

func (t *Transport) upsert(ctx context.Context, rows any, n int, kind string) error {
	if n == 0 {
		return nil
	}
	err := t.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(rows).Error
	if err != nil {
		return fmt.Errorf("pushing %s: %w", kind, err)
	}
	return nil
}
