// Package workspace holds the authoritative in-memory working set for one
// owner's session. Every user-facing mutation flows through the Controller:
// it refreshes the record's timestamp, applies the change in memory, writes
// through to the local replica, and arms the debounced sync scheduler. The
// realtime listener feeds remote events into the same controller through the
// ApplyRemote/RemoveRemote methods, which skip scheduling.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/reconcile"
	"github.com/inkline/inkline/pkg/store"
)

// Status is the sync state surfaced to callers.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusError   Status = "error"
)

var (
	ErrFolderNotFound   = errors.New("workspace: folder not found")
	ErrDocumentNotFound = errors.New("workspace: document not found")
	ErrVersionNotFound  = errors.New("workspace: version not found")
	ErrShareNotFound    = errors.New("workspace: share not found")

	// ErrCyclicFolderMove rejects moving a folder into itself or one of its
	// descendants.
	ErrCyclicFolderMove = errors.New("workspace: folder move would create a cycle")
)

// DocumentPatch updates a subset of a document's fields. Nil fields are left
// alone.
type DocumentPatch struct {
	Title       *string
	ContentMD   *string
	ContentHTML *string
}

// DefaultDebounceWindow is the quiet window between the last mutation and
// the sync run it triggers.
const DefaultDebounceWindow = 1200 * time.Millisecond

// Options configures a Controller.
type Options struct {
	// DebounceWindow overrides DefaultDebounceWindow when positive.
	DebounceWindow time.Duration
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Controller is the workspace state controller.
type Controller struct {
	owner models.UserID
	store store.Store
	rec   *reconcile.Reconciler
	log   zerolog.Logger
	now   func() time.Time
	sched *Scheduler

	mu        sync.Mutex
	folders   []models.Folder
	documents []models.Document
	versions  []models.Version
	shares    []models.Share

	activeFolderID   *models.FolderID
	activeDocumentID *models.DocumentID

	syncStatus Status
	syncErr    string
}

// New creates a controller. Call Load before using it.
func New(owner models.UserID, st store.Store, rec *reconcile.Reconciler, log zerolog.Logger, opts Options) *Controller {
	c := &Controller{
		owner:      owner,
		store:      st,
		rec:        rec,
		log:        log,
		now:        time.Now,
		syncStatus: StatusIdle,
	}
	if opts.Clock != nil {
		c.now = opts.Clock
	}
	window := DefaultDebounceWindow
	if opts.DebounceWindow > 0 {
		window = opts.DebounceWindow
	}
	c.sched = NewScheduler(window, func() {
		if err := c.SyncNow(context.Background()); err != nil {
			c.log.Warn().Err(err).Msg("scheduled sync failed")
		}
	})
	return c
}

// Close stops the sync scheduler. It does not close the store.
func (c *Controller) Close() {
	c.sched.Stop()
}

// Load reads the replica into memory, re-stamps records persisted under a
// different owner, and seeds the welcome content when the workspace is
// completely empty.
func (c *Controller) Load(ctx context.Context) error {
	folders, err := c.store.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("loading folders: %w", err)
	}
	documents, err := c.store.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	versions, err := c.store.ListVersions(ctx)
	if err != nil {
		return fmt.Errorf("loading versions: %w", err)
	}
	shares, err := c.store.ListShares(ctx)
	if err != nil {
		return fmt.Errorf("loading shares: %w", err)
	}

	for i := range folders {
		if folders[i].UserID != c.owner {
			folders[i].UserID = c.owner
			if err := c.store.PutFolder(ctx, folders[i]); err != nil {
				return fmt.Errorf("re-stamping folder owner: %w", err)
			}
		}
	}
	for i := range documents {
		if documents[i].UserID != c.owner {
			documents[i].UserID = c.owner
			if err := c.store.PutDocument(ctx, documents[i]); err != nil {
				return fmt.Errorf("re-stamping document owner: %w", err)
			}
		}
	}

	c.mu.Lock()
	c.folders = folders
	c.documents = documents
	c.versions = versions
	c.shares = shares
	c.mu.Unlock()

	if len(folders) == 0 && len(documents) == 0 {
		if err := c.seed(ctx); err != nil {
			return err
		}
	}
	return nil
}

// seed inserts the welcome folder and document exactly once, on first launch.
func (c *Controller) seed(ctx context.Context) error {
	now := c.now().UTC()
	folder := models.Folder{
		ID:        models.NewFolderID(),
		UserID:    c.owner,
		Name:      "Getting Started",
		SortIndex: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc := models.Document{
		ID:       models.NewDocumentID(),
		UserID:   c.owner,
		FolderID: &folder.ID,
		Title:    "Welcome to Inkline",
		ContentMD: "# Welcome to Inkline\n\n" +
			"Inkline keeps your notes on this device and syncs them to the cloud when a backend is configured.\n\n" +
			"- Organize notes into folders\n" +
			"- Save versions before big edits and restore them any time\n" +
			"- Share a note with a read-only link\n\n" +
			"Everything works offline; changes merge by most recent edit once you are back online.",
		Tags:      models.StringSlice{"welcome"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.store.PutFolder(ctx, folder); err != nil {
		return fmt.Errorf("seeding folder: %w", err)
	}
	if err := c.store.PutDocument(ctx, doc); err != nil {
		return fmt.Errorf("seeding document: %w", err)
	}

	c.mu.Lock()
	c.folders = append(c.folders, folder)
	c.documents = append(c.documents, doc)
	c.activeFolderID = &folder.ID
	c.activeDocumentID = &doc.ID
	c.mu.Unlock()

	c.log.Info().Str("user", c.owner.String()).Msg("seeded welcome workspace")
	return nil
}

// Folder operations

func (c *Controller) CreateFolder(ctx context.Context, name string, parentID *models.FolderID) (models.Folder, error) {
	now := c.now().UTC()

	c.mu.Lock()
	folder := models.Folder{
		ID:        models.NewFolderID(),
		UserID:    c.owner,
		ParentID:  parentID,
		Name:      name,
		SortIndex: len(c.folders),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.folders = append(c.folders, folder)
	c.mu.Unlock()

	if err := c.store.PutFolder(ctx, folder); err != nil {
		return models.Folder{}, err
	}
	c.sched.Schedule()
	return folder, nil
}

func (c *Controller) RenameFolder(ctx context.Context, id models.FolderID, name string) (models.Folder, error) {
	c.mu.Lock()
	i := c.folderIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Folder{}, ErrFolderNotFound
	}
	c.folders[i].Name = name
	c.folders[i].UpdatedAt = c.now().UTC()
	folder := c.folders[i]
	c.mu.Unlock()

	if err := c.store.PutFolder(ctx, folder); err != nil {
		return models.Folder{}, err
	}
	c.sched.Schedule()
	return folder, nil
}

// MoveFolder reparents a folder. A nil parent moves it to the root. Moving a
// folder into itself or any of its descendants is rejected.
func (c *Controller) MoveFolder(ctx context.Context, id models.FolderID, parentID *models.FolderID) (models.Folder, error) {
	c.mu.Lock()
	i := c.folderIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Folder{}, ErrFolderNotFound
	}
	if parentID != nil && c.wouldCycle(id, *parentID) {
		c.mu.Unlock()
		return models.Folder{}, ErrCyclicFolderMove
	}
	c.folders[i].ParentID = parentID
	c.folders[i].UpdatedAt = c.now().UTC()
	folder := c.folders[i]
	c.mu.Unlock()

	if err := c.store.PutFolder(ctx, folder); err != nil {
		return models.Folder{}, err
	}
	c.sched.Schedule()
	return folder, nil
}

// wouldCycle reports whether parenting id under newParent would make the
// folder its own ancestor. Callers hold c.mu.
func (c *Controller) wouldCycle(id, newParent models.FolderID) bool {
	cur := &newParent
	for cur != nil {
		if *cur == id {
			return true
		}
		i := c.folderIndex(*cur)
		if i < 0 {
			return false
		}
		cur = c.folders[i].ParentID
	}
	return false
}

// DeleteFolder removes a folder and reparents its immediate children, both
// folders and documents, to the deleted folder's own parent. One level is
// flattened; nothing is deleted recursively.
func (c *Controller) DeleteFolder(ctx context.Context, id models.FolderID) error {
	now := c.now().UTC()

	c.mu.Lock()
	i := c.folderIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return ErrFolderNotFound
	}
	newParent := c.folders[i].ParentID

	var reparentedFolders []models.Folder
	var reparentedDocs []models.Document
	c.folders = append(c.folders[:i], c.folders[i+1:]...)
	for j := range c.folders {
		if c.folders[j].ParentID != nil && *c.folders[j].ParentID == id {
			c.folders[j].ParentID = newParent
			c.folders[j].UpdatedAt = now
			reparentedFolders = append(reparentedFolders, c.folders[j])
		}
	}
	for j := range c.documents {
		if c.documents[j].FolderID != nil && *c.documents[j].FolderID == id {
			c.documents[j].FolderID = newParent
			c.documents[j].UpdatedAt = now
			reparentedDocs = append(reparentedDocs, c.documents[j])
		}
	}
	if c.activeFolderID != nil && *c.activeFolderID == id {
		c.activeFolderID = nil
	}
	c.mu.Unlock()

	if err := c.store.RemoveFolder(ctx, id); err != nil {
		return err
	}
	if err := c.store.PutFolders(ctx, reparentedFolders); err != nil {
		return err
	}
	if err := c.store.PutDocuments(ctx, reparentedDocs); err != nil {
		return err
	}
	c.sched.Schedule()
	return nil
}

// Document operations

const (
	defaultDocumentTitle   = "Untitled document"
	defaultDocumentContent = "# New document\n\nStart writing your ideas here."
)

// CreateDocument creates a document in the given folder (nil for root) and
// makes it the active document. An empty title gets a default.
func (c *Controller) CreateDocument(ctx context.Context, folderID *models.FolderID, title string) (models.Document, error) {
	if title == "" {
		title = defaultDocumentTitle
	}
	now := c.now().UTC()
	doc := models.Document{
		ID:        models.NewDocumentID(),
		UserID:    c.owner,
		FolderID:  folderID,
		Title:     title,
		ContentMD: defaultDocumentContent,
		Tags:      models.StringSlice{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.mu.Lock()
	c.documents = append(c.documents, doc)
	c.activeDocumentID = &doc.ID
	c.mu.Unlock()

	if err := c.store.PutDocument(ctx, doc); err != nil {
		return models.Document{}, err
	}
	c.sched.Schedule()
	return doc, nil
}

func (c *Controller) UpdateDocument(ctx context.Context, id models.DocumentID, patch DocumentPatch) (models.Document, error) {
	c.mu.Lock()
	i := c.documentIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Document{}, ErrDocumentNotFound
	}
	if patch.Title != nil {
		c.documents[i].Title = *patch.Title
	}
	if patch.ContentMD != nil {
		c.documents[i].ContentMD = *patch.ContentMD
	}
	if patch.ContentHTML != nil {
		c.documents[i].ContentHTML = *patch.ContentHTML
	}
	c.documents[i].UpdatedAt = c.now().UTC()
	doc := c.documents[i]
	c.mu.Unlock()

	if err := c.store.PutDocument(ctx, doc); err != nil {
		return models.Document{}, err
	}
	c.sched.Schedule()
	return doc, nil
}

// MoveDocument files a document under the given folder, or at the root when
// folderID is nil.
func (c *Controller) MoveDocument(ctx context.Context, id models.DocumentID, folderID *models.FolderID) (models.Document, error) {
	c.mu.Lock()
	i := c.documentIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Document{}, ErrDocumentNotFound
	}
	c.documents[i].FolderID = folderID
	c.documents[i].UpdatedAt = c.now().UTC()
	doc := c.documents[i]
	c.mu.Unlock()

	if err := c.store.PutDocument(ctx, doc); err != nil {
		return models.Document{}, err
	}
	c.sched.Schedule()
	return doc, nil
}

// DeleteDocument removes a document and cascades to its versions and shares.
func (c *Controller) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	c.mu.Lock()
	i := c.documentIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return ErrDocumentNotFound
	}
	c.documents = append(c.documents[:i], c.documents[i+1:]...)

	var removedVersions []models.VersionID
	kept := c.versions[:0]
	for _, v := range c.versions {
		if v.DocumentID == id {
			removedVersions = append(removedVersions, v.ID)
		} else {
			kept = append(kept, v)
		}
	}
	c.versions = kept

	var removedShares []models.ShareID
	keptShares := c.shares[:0]
	for _, s := range c.shares {
		if s.DocumentID == id {
			removedShares = append(removedShares, s.ID)
		} else {
			keptShares = append(keptShares, s)
		}
	}
	c.shares = keptShares

	if c.activeDocumentID != nil && *c.activeDocumentID == id {
		c.activeDocumentID = nil
		if len(c.documents) > 0 {
			next := c.documents[0].ID
			c.activeDocumentID = &next
		}
	}
	c.mu.Unlock()

	if err := c.store.RemoveDocument(ctx, id); err != nil {
		return err
	}
	for _, vid := range removedVersions {
		if err := c.store.RemoveVersion(ctx, vid); err != nil {
			return err
		}
	}
	for _, sid := range removedShares {
		if err := c.store.RemoveShare(ctx, sid); err != nil {
			return err
		}
	}
	c.sched.Schedule()
	return nil
}

// Tags

func (c *Controller) AddTag(ctx context.Context, id models.DocumentID, tag string) (models.Document, error) {
	c.mu.Lock()
	i := c.documentIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Document{}, ErrDocumentNotFound
	}
	if c.documents[i].Tags.Contains(tag) {
		doc := c.documents[i]
		c.mu.Unlock()
		return doc, nil
	}
	tags := make(models.StringSlice, 0, len(c.documents[i].Tags)+1)
	tags = append(tags, c.documents[i].Tags...)
	tags = append(tags, tag)
	c.documents[i].Tags = tags
	c.documents[i].UpdatedAt = c.now().UTC()
	doc := c.documents[i]
	c.mu.Unlock()

	if err := c.store.PutDocument(ctx, doc); err != nil {
		return models.Document{}, err
	}
	c.sched.Schedule()
	return doc, nil
}

func (c *Controller) RemoveTag(ctx context.Context, id models.DocumentID, tag string) (models.Document, error) {
	c.mu.Lock()
	i := c.documentIndex(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Document{}, ErrDocumentNotFound
	}
	tags := make(models.StringSlice, 0, len(c.documents[i].Tags))
	for _, t := range c.documents[i].Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	c.documents[i].Tags = tags
	c.documents[i].UpdatedAt = c.now().UTC()
	doc := c.documents[i]
	c.mu.Unlock()

	if err := c.store.PutDocument(ctx, doc); err != nil {
		return models.Document{}, err
	}
	c.sched.Schedule()
	return doc, nil
}

// Versions

// SaveVersion snapshots the document's current markdown as the next version
// number for that document.
func (c *Controller) SaveVersion(ctx context.Context, docID models.DocumentID) (models.Version, error) {
	c.mu.Lock()
	i := c.documentIndex(docID)
	if i < 0 {
		c.mu.Unlock()
		return models.Version{}, ErrDocumentNotFound
	}
	no := 1
	for _, v := range c.versions {
		if v.DocumentID == docID {
			no++
		}
	}
	version := models.Version{
		ID:         models.NewVersionID(),
		DocumentID: docID,
		VersionNo:  no,
		ContentMD:  c.documents[i].ContentMD,
		CreatedAt:  c.now().UTC(),
	}
	c.versions = append(c.versions, version)
	c.mu.Unlock()

	if err := c.store.PutVersion(ctx, version); err != nil {
		return models.Version{}, err
	}
	c.sched.Schedule()
	return version, nil
}

// RestoreVersion rewrites the owning document's markdown to the snapshot and
// clears the cached render so it regenerates. The content being replaced is
// not snapshotted; it is gone unless a version was saved first.
func (c *Controller) RestoreVersion(ctx context.Context, id models.VersionID) (models.Document, error) {
	c.mu.Lock()
	var version *models.Version
	for j := range c.versions {
		if c.versions[j].ID == id {
			version = &c.versions[j]
			break
		}
	}
	if version == nil {
		c.mu.Unlock()
		return models.Document{}, ErrVersionNotFound
	}
	content := version.ContentMD
	docID := version.DocumentID
	c.mu.Unlock()

	empty := ""
	return c.UpdateDocument(ctx, docID, DocumentPatch{ContentMD: &content, ContentHTML: &empty})
}

// VersionsForDocument returns the document's versions in ascending version
// order.
func (c *Controller) VersionsForDocument(docID models.DocumentID) []models.Version {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Version
	for _, v := range c.versions {
		if v.DocumentID == docID {
			out = append(out, v)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].VersionNo < out[j-1].VersionNo; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Shares

// EnsureShare returns the document's existing share, creating a read share
// with a fresh token when none exists yet.
func (c *Controller) EnsureShare(ctx context.Context, docID models.DocumentID) (models.Share, error) {
	c.mu.Lock()
	if c.documentIndex(docID) < 0 {
		c.mu.Unlock()
		return models.Share{}, ErrDocumentNotFound
	}
	for _, s := range c.shares {
		if s.DocumentID == docID {
			c.mu.Unlock()
			return s, nil
		}
	}
	c.mu.Unlock()

	token, err := models.NewShareToken()
	if err != nil {
		return models.Share{}, err
	}
	share := models.Share{
		ID:         models.NewShareID(),
		DocumentID: docID,
		Token:      token,
		Mode:       models.ShareModeRead,
		CreatedAt:  c.now().UTC(),
	}

	c.mu.Lock()
	c.shares = append(c.shares, share)
	c.mu.Unlock()

	if err := c.store.PutShare(ctx, share); err != nil {
		return models.Share{}, err
	}
	c.sched.Schedule()
	return share, nil
}

func (c *Controller) DeleteShare(ctx context.Context, id models.ShareID) error {
	c.mu.Lock()
	found := false
	kept := c.shares[:0]
	for _, s := range c.shares {
		if s.ID == id {
			found = true
		} else {
			kept = append(kept, s)
		}
	}
	c.shares = kept
	c.mu.Unlock()
	if !found {
		return ErrShareNotFound
	}

	if err := c.store.RemoveShare(ctx, id); err != nil {
		return err
	}
	c.sched.Schedule()
	return nil
}

// ResolveShare looks a share token up and returns the shared document. Used
// by the public share endpoint; absence of the token or of the document both
// come back as ErrShareNotFound so the endpoint leaks nothing.
func (c *Controller) ResolveShare(ctx context.Context, token string) (models.Document, models.Share, error) {
	share, err := c.store.ShareByToken(ctx, token)
	if err != nil {
		return models.Document{}, models.Share{}, err
	}
	if share == nil {
		return models.Document{}, models.Share{}, ErrShareNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.documentIndex(share.DocumentID)
	if i < 0 {
		return models.Document{}, models.Share{}, ErrShareNotFound
	}
	return c.documents[i], *share, nil
}

// Sync

// SyncNow runs a reconcile cycle immediately, independent of the debounce
// timer. The merged result replaces the in-memory working set. A pull or
// persist failure leaves state untouched; a push failure keeps the merged
// (locally durable) state and surfaces an error status.
func (c *Controller) SyncNow(ctx context.Context) error {
	c.mu.Lock()
	c.syncStatus = StatusSyncing
	c.syncErr = ""
	local := c.snapshotLocked()
	c.mu.Unlock()

	merged, err := c.rec.Run(ctx, c.owner, local)

	c.mu.Lock()
	defer c.mu.Unlock()
	var pushErr *reconcile.PushError
	switch {
	case err == nil:
		c.promoteLocked(merged)
		c.syncStatus = StatusIdle
	case errors.As(err, &pushErr):
		c.promoteLocked(merged)
		c.syncStatus = StatusError
		c.syncErr = err.Error()
	default:
		c.syncStatus = StatusError
		c.syncErr = err.Error()
	}
	return err
}

// ScheduleSync arms the debounce timer, as every mutation does. Exposed for
// callers that change nothing but still want a refresh soon.
func (c *Controller) ScheduleSync() {
	c.sched.Schedule()
}

// FlushSync runs a pending scheduled sync immediately, if one is armed.
func (c *Controller) FlushSync() {
	c.sched.Flush()
}

// SyncStatus returns the current status and, when status is error, the
// human-readable failure message.
func (c *Controller) SyncStatus() (Status, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncStatus, c.syncErr
}

func (c *Controller) promoteLocked(b models.Bundle) {
	c.folders = b.Folders
	c.documents = b.Documents
	c.versions = b.Versions
	c.shares = b.Shares
}

// Snapshot returns a copy of the in-memory working set.
func (c *Controller) Snapshot() models.Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.Bundle {
	b := models.Bundle{
		Folders:   make([]models.Folder, len(c.folders)),
		Documents: make([]models.Document, len(c.documents)),
		Versions:  make([]models.Version, len(c.versions)),
		Shares:    make([]models.Share, len(c.shares)),
	}
	copy(b.Folders, c.folders)
	copy(b.Documents, c.documents)
	copy(b.Versions, c.versions)
	copy(b.Shares, c.shares)
	return b
}

// Realtime event application. These bypass the merge rule: the inbound event
// simply overwrites or removes, and no sync is scheduled.

func (c *Controller) ApplyRemoteFolder(ctx context.Context, folder models.Folder) error {
	c.mu.Lock()
	if i := c.folderIndex(folder.ID); i >= 0 {
		c.folders[i] = folder
	} else {
		c.folders = append(c.folders, folder)
	}
	c.mu.Unlock()
	return c.store.PutFolder(ctx, folder)
}

func (c *Controller) RemoveRemoteFolder(ctx context.Context, id models.FolderID) error {
	c.mu.Lock()
	if i := c.folderIndex(id); i >= 0 {
		c.folders = append(c.folders[:i], c.folders[i+1:]...)
	}
	if c.activeFolderID != nil && *c.activeFolderID == id {
		c.activeFolderID = nil
	}
	c.mu.Unlock()
	return c.store.RemoveFolder(ctx, id)
}

func (c *Controller) ApplyRemoteDocument(ctx context.Context, doc models.Document) error {
	c.mu.Lock()
	if i := c.documentIndex(doc.ID); i >= 0 {
		c.documents[i] = doc
	} else {
		c.documents = append(c.documents, doc)
	}
	c.mu.Unlock()
	return c.store.PutDocument(ctx, doc)
}

func (c *Controller) RemoveRemoteDocument(ctx context.Context, id models.DocumentID) error {
	c.mu.Lock()
	if i := c.documentIndex(id); i >= 0 {
		c.documents = append(c.documents[:i], c.documents[i+1:]...)
	}
	if c.activeDocumentID != nil && *c.activeDocumentID == id {
		c.activeDocumentID = nil
		if len(c.documents) > 0 {
			next := c.documents[0].ID
			c.activeDocumentID = &next
		}
	}
	c.mu.Unlock()
	return c.store.RemoveDocument(ctx, id)
}

// Selection

func (c *Controller) SetActiveFolder(id *models.FolderID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeFolderID = id
}

func (c *Controller) SetActiveDocument(id *models.DocumentID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeDocumentID = id
}

func (c *Controller) ActiveFolder() *models.FolderID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeFolderID
}

func (c *Controller) ActiveDocument() *models.DocumentID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeDocumentID
}

// Accessors

func (c *Controller) Owner() models.UserID { return c.owner }

func (c *Controller) Folders() []models.Folder {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Folder, len(c.folders))
	copy(out, c.folders)
	return out
}

func (c *Controller) Documents() []models.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Document, len(c.documents))
	copy(out, c.documents)
	return out
}

func (c *Controller) Shares() []models.Share {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Share, len(c.shares))
	copy(out, c.shares)
	return out
}

// Document returns the document with the given id, or ErrDocumentNotFound.
func (c *Controller) Document(id models.DocumentID) (models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.documentIndex(id); i >= 0 {
		return c.documents[i], nil
	}
	return models.Document{}, ErrDocumentNotFound
}

// Folder returns the folder with the given id, or ErrFolderNotFound.
func (c *Controller) Folder(id models.FolderID) (models.Folder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.folderIndex(id); i >= 0 {
		return c.folders[i], nil
	}
	return models.Folder{}, ErrFolderNotFound
}

// folderIndex and documentIndex require c.mu held.

func (c *Controller) folderIndex(id models.FolderID) int {
	for i := range c.folders {
		if c.folders[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) documentIndex(id models.DocumentID) int {
	for i := range c.documents {
		if c.documents[i].ID == id {
			return i
		}
	}
	return -1
}
