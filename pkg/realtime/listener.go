// Package realtime subscribes to the backend's per-owner change feed and
// applies inbound folder and document events straight into the workspace,
// bypassing the reconciler's recency rule. Versions and shares are not
// live-synced; the next full pull covers them.
package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/remote"
)

// Actions carried by change events.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Tables covered by the feed.
const (
	TableFolders   = "folders"
	TableDocuments = "documents"
)

// Event is one CBOR-encoded change frame. Record holds the full row for
// inserts and updates; deletes carry only the old row's identity.
type Event struct {
	Table  string          `cbor:"table"`
	Action string          `cbor:"action"`
	Record cbor.RawMessage `cbor:"record,omitempty"`
	OldID  string          `cbor:"old_id,omitempty"`
}

// Handler receives decoded feed events. Implemented by the workspace
// controller; an error aborts nothing, it is only logged.
type Handler interface {
	ApplyRemoteFolder(ctx context.Context, folder models.Folder) error
	RemoveRemoteFolder(ctx context.Context, id models.FolderID) error
	ApplyRemoteDocument(ctx context.Context, doc models.Document) error
	RemoveRemoteDocument(ctx context.Context, id models.DocumentID) error
}

// Listener is one owner's feed subscription. Create with New, start with
// Connect, stop with Close. A dropped connection is reported through Done;
// there is no automatic redial and no replay of missed events.
type Listener struct {
	baseURL string
	owner   models.UserID
	handler Handler
	log     zerolog.Logger

	connLock sync.Mutex
	conn     *websocket.Conn

	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
}

func New(baseURL string, owner models.UserID, handler Handler, log zerolog.Logger) *Listener {
	return &Listener{
		baseURL: baseURL,
		owner:   owner,
		handler: handler,
		log:     log,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Connect dials the feed and starts the read loop.
func (l *Listener) Connect(ctx context.Context) error {
	u, err := url.Parse(l.baseURL)
	if err != nil {
		return fmt.Errorf("invalid realtime URL: %w", err)
	}
	q := u.Query()
	q.Set("user_id", l.owner.String())
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		Subprotocols:     []string{"cbor"},
	}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dialing realtime feed: %w", err)
	}

	l.connLock.Lock()
	l.conn = conn
	l.connLock.Unlock()

	go l.readLoop()
	return nil
}

// Done is closed when the read loop exits, whether from Close or a dropped
// connection.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Close tears the subscription down. Safe to call more than once.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.closeCh)
		l.connLock.Lock()
		if l.conn != nil {
			err = l.conn.Close()
		}
		l.connLock.Unlock()
	})
	return err
}

func (l *Listener) readLoop() {
	defer close(l.done)
	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			select {
			case <-l.closeCh:
			default:
				l.log.Warn().Err(err).Str("user", l.owner.String()).Msg("realtime feed dropped")
			}
			return
		}

		var ev Event
		if err := cbor.Unmarshal(data, &ev); err != nil {
			l.log.Warn().Err(err).Msg("discarding undecodable realtime frame")
			continue
		}
		l.dispatch(ev)
	}
}

func (l *Listener) dispatch(ev Event) {
	ctx := context.Background()
	var err error

	switch ev.Table {
	case TableFolders:
		if ev.Action == ActionDelete {
			var id models.FolderID
			if id, err = models.ParseFolderID(ev.OldID); err == nil {
				err = l.handler.RemoveRemoteFolder(ctx, id)
			}
		} else {
			var row remote.FolderRow
			if err = cbor.Unmarshal(ev.Record, &row); err == nil {
				err = l.handler.ApplyRemoteFolder(ctx, remote.FolderFromRow(row))
			}
		}
	case TableDocuments:
		if ev.Action == ActionDelete {
			var id models.DocumentID
			if id, err = models.ParseDocumentID(ev.OldID); err == nil {
				err = l.handler.RemoveRemoteDocument(ctx, id)
			}
		} else {
			var row remote.DocumentRow
			if err = cbor.Unmarshal(ev.Record, &row); err == nil {
				err = l.handler.ApplyRemoteDocument(ctx, remote.DocumentFromRow(row))
			}
		}
	default:
		return
	}

	if err != nil {
		l.log.Warn().Err(err).Str("table", ev.Table).Str("action", ev.Action).Msg("realtime event not applied")
	}
}
