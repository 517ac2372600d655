// Package inkline wires the sync engine together: local replica, remote
// transport, reconciler, realtime listener, and the HTTP surface used to
// operate the workspace headless.
package inkline

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/realtime"
	"github.com/inkline/inkline/pkg/reconcile"
	"github.com/inkline/inkline/pkg/remote"
	"github.com/inkline/inkline/pkg/remote/postgres"
	"github.com/inkline/inkline/pkg/store/sqlite"
	"github.com/inkline/inkline/pkg/workspace"
)

// Config holds the runtime configuration, read from the environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DBPath is the local replica's SQLite file. ":memory:" for ephemeral.
	DBPath string
	// PostgresDSN points at the hosted backend. Empty means no backend:
	// the engine runs purely local and never syncs.
	PostgresDSN string
	// RealtimeURL is the backend's websocket change feed. Only used when
	// PostgresDSN is set.
	RealtimeURL string
	// UserID is the workspace owner. When empty a stable local owner is
	// derived so repeated launches share one workspace.
	UserID string
	// DebounceWindow overrides the default quiet window between a mutation
	// and the sync it triggers.
	DebounceWindow time.Duration
}

// ConfigFromEnv builds a Config from INKLINE_* environment variables.
func ConfigFromEnv() Config {
	return Config{
		Addr:           getEnv("INKLINE_ADDR", ":8080"),
		DBPath:         getEnv("INKLINE_DB_PATH", "inkline.db"),
		PostgresDSN:    getEnv("INKLINE_POSTGRES_DSN", ""),
		RealtimeURL:    getEnv("INKLINE_REALTIME_URL", ""),
		UserID:         getEnv("INKLINE_USER_ID", ""),
		DebounceWindow: durationEnv("INKLINE_SYNC_DEBOUNCE", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// localOwnerNamespace seeds the derived owner ID for installs without a
// configured user, so the same machine maps to the same workspace every run.
var localOwnerNamespace = uuid.MustParse("36dd52f4-4cbe-4f5d-94f2-93b9f1d1e9a8")

// App owns every long-lived component of the engine.
type App struct {
	config    Config
	log       zerolog.Logger
	owner     models.UserID
	store     *sqlite.Store
	transport remote.Transport
	pg        *postgres.Transport
	ws        *workspace.Controller
	listener  *realtime.Listener
}

// New builds the app: opens the replica, connects the transport (or installs
// the no-op one), and constructs the workspace controller. Call Close when
// done.
func New(config Config, log zerolog.Logger) (*App, error) {
	owner, err := resolveOwner(config.UserID)
	if err != nil {
		return nil, err
	}

	st, err := sqlite.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening local replica: %w", err)
	}

	a := &App{
		config:    config,
		log:       log,
		owner:     owner,
		store:     st,
		transport: remote.Noop{},
	}

	if config.PostgresDSN != "" {
		pg, err := postgres.New(config.PostgresDSN)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("connecting to backend: %w", err)
		}
		a.pg = pg
		a.transport = pg
		log.Info().Msg("backend configured, sync enabled")
	} else {
		log.Info().Msg("no backend configured, running purely local")
	}

	rec := reconcile.New(st, a.transport, log)
	a.ws = workspace.New(owner, st, rec, log, workspace.Options{
		DebounceWindow: config.DebounceWindow,
	})
	return a, nil
}

func resolveOwner(raw string) (models.UserID, error) {
	if raw == "" {
		host, _ := os.Hostname()
		return models.NewUserIDFromUUID(uuid.NewSHA1(localOwnerNamespace, []byte(host))), nil
	}
	owner, err := models.ParseUserID(raw)
	if err != nil {
		return models.UserID{}, fmt.Errorf("resolving owner: %w", err)
	}
	return owner, nil
}

// Workspace exposes the controller, mostly for tests.
func (a *App) Workspace() *workspace.Controller { return a.ws }

// Close releases every component. Safe after a partial shutdown.
func (a *App) Close() error {
	if a.listener != nil {
		a.listener.Close()
	}
	a.ws.Close()
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing backend connection")
		}
	}
	return a.store.Close()
}
