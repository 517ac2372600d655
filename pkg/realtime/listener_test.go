package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/remote"
)

// recordingHandler collects applied events and signals each arrival.
type recordingHandler struct {
	mu         sync.Mutex
	folders    []models.Folder
	docs       []models.Document
	removedF   []models.FolderID
	removedD   []models.DocumentID
	applied    chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{applied: make(chan struct{}, 16)}
}

func (h *recordingHandler) ApplyRemoteFolder(ctx context.Context, f models.Folder) error {
	h.mu.Lock()
	h.folders = append(h.folders, f)
	h.mu.Unlock()
	h.applied <- struct{}{}
	return nil
}

func (h *recordingHandler) RemoveRemoteFolder(ctx context.Context, id models.FolderID) error {
	h.mu.Lock()
	h.removedF = append(h.removedF, id)
	h.mu.Unlock()
	h.applied <- struct{}{}
	return nil
}

func (h *recordingHandler) ApplyRemoteDocument(ctx context.Context, d models.Document) error {
	h.mu.Lock()
	h.docs = append(h.docs, d)
	h.mu.Unlock()
	h.applied <- struct{}{}
	return nil
}

func (h *recordingHandler) RemoveRemoteDocument(ctx context.Context, id models.DocumentID) error {
	h.mu.Lock()
	h.removedD = append(h.removedD, id)
	h.mu.Unlock()
	h.applied <- struct{}{}
	return nil
}

// feedServer upgrades one connection and hands it to the test.
type feedServer struct {
	srv    *httptest.Server
	conns  chan *websocket.Conn
	userID chan string
}

func newFeedServer(t *testing.T) *feedServer {
	t.Helper()
	fs := &feedServer{
		conns:  make(chan *websocket.Conn, 1),
		userID: make(chan string, 1),
	}
	upgrader := websocket.Upgrader{Subprotocols: []string{"cbor"}}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.userID <- r.URL.Query().Get("user_id")
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		fs.conns <- conn
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *feedServer) wsURL() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http")
}

func (fs *feedServer) send(t *testing.T, conn *websocket.Conn, ev Event) {
	t.Helper()
	data, err := cbor.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, data))
}

func testOwner(t *testing.T) models.UserID {
	t.Helper()
	owner, err := models.ParseUserID("4f8a6c1d-2b3e-4d5f-9a0b-1c2d3e4f5a6b")
	require.NoError(t, err)
	return owner
}

func waitApplied(t *testing.T, h *recordingHandler) {
	t.Helper()
	select {
	case <-h.applied:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event to apply")
	}
}

func TestListenerAppliesUpsertsAndDeletes(t *testing.T) {
	fs := newFeedServer(t)
	h := newRecordingHandler()
	owner := testOwner(t)

	l := New(fs.wsURL(), owner, h, zerolog.Nop())
	require.NoError(t, l.Connect(context.Background()))
	defer l.Close()

	assert.Equal(t, owner.String(), <-fs.userID, "subscription must be scoped to the owner")
	conn := <-fs.conns

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	docRow := remote.DocumentRow{
		ID: models.NewDocumentID(), UserID: owner, Title: "pushed from elsewhere",
		ContentMD: "body", Tags: models.StringSlice{"x"},
		CreatedAt: now, UpdatedAt: now,
	}
	record, err := cbor.Marshal(docRow)
	require.NoError(t, err)
	fs.send(t, conn, Event{Table: TableDocuments, Action: ActionInsert, Record: record})
	waitApplied(t, h)

	h.mu.Lock()
	require.Len(t, h.docs, 1)
	assert.Equal(t, "pushed from elsewhere", h.docs[0].Title)
	assert.Equal(t, docRow.ID, h.docs[0].ID)
	h.mu.Unlock()

	folderRow := remote.FolderRow{
		ID: models.NewFolderID(), UserID: owner, Name: "new folder",
		CreatedAt: now, UpdatedAt: now,
	}
	record, err = cbor.Marshal(folderRow)
	require.NoError(t, err)
	fs.send(t, conn, Event{Table: TableFolders, Action: ActionUpdate, Record: record})
	waitApplied(t, h)

	h.mu.Lock()
	require.Len(t, h.folders, 1)
	assert.Equal(t, "new folder", h.folders[0].Name)
	h.mu.Unlock()

	fs.send(t, conn, Event{Table: TableDocuments, Action: ActionDelete, OldID: docRow.ID.String()})
	waitApplied(t, h)

	h.mu.Lock()
	require.Len(t, h.removedD, 1)
	assert.Equal(t, docRow.ID, h.removedD[0])
	h.mu.Unlock()
}

func TestListenerIgnoresUncoveredTables(t *testing.T) {
	fs := newFeedServer(t)
	h := newRecordingHandler()

	l := New(fs.wsURL(), testOwner(t), h, zerolog.Nop())
	require.NoError(t, l.Connect(context.Background()))
	defer l.Close()

	<-fs.userID
	conn := <-fs.conns

	// Versions and shares are not live-synced; their events fall through.
	fs.send(t, conn, Event{Table: "doc_versions", Action: ActionInsert})
	fs.send(t, conn, Event{Table: "shares", Action: ActionDelete, OldID: models.NewShareID().String()})

	// A covered event after the ignored ones proves they were skipped in
	// order, not queued behind a failure.
	folderRow := remote.FolderRow{ID: models.NewFolderID(), Name: "after"}
	record, err := cbor.Marshal(folderRow)
	require.NoError(t, err)
	fs.send(t, conn, Event{Table: TableFolders, Action: ActionInsert, Record: record})
	waitApplied(t, h)

	h.mu.Lock()
	assert.Len(t, h.folders, 1)
	assert.Empty(t, h.docs)
	assert.Empty(t, h.removedD)
	h.mu.Unlock()
}

func TestListenerCloseSignalsDone(t *testing.T) {
	fs := newFeedServer(t)
	h := newRecordingHandler()

	l := New(fs.wsURL(), testOwner(t), h, zerolog.Nop())
	require.NoError(t, l.Connect(context.Background()))
	<-fs.conns

	require.NoError(t, l.Close())
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not exit after Close")
	}

	// Closing twice is safe.
	assert.NoError(t, l.Close())
}

func TestListenerReportsDroppedConnection(t *testing.T) {
	fs := newFeedServer(t)
	h := newRecordingHandler()

	l := New(fs.wsURL(), testOwner(t), h, zerolog.Nop())
	require.NoError(t, l.Connect(context.Background()))
	defer l.Close()

	conn := <-fs.conns
	require.NoError(t, conn.Close())

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not exit after server dropped the connection")
	}
}
