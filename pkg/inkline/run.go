package inkline

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/inkline/inkline/pkg/realtime"
)

// Run loads the workspace, starts the realtime listener when the backend is
// configured, kicks off an initial sync, and serves the HTTP API until the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.ws.Load(ctx); err != nil {
		return err
	}

	if a.pg != nil && a.config.RealtimeURL != "" {
		l := realtime.New(a.config.RealtimeURL, a.owner, a.ws, a.log)
		if err := l.Connect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("realtime feed unavailable, continuing without it")
		} else {
			a.listener = l
		}
	}

	if a.pg != nil {
		if err := a.ws.SyncNow(ctx); err != nil {
			a.log.Warn().Err(err).Msg("initial sync failed")
		}
	}

	router := a.Router()

	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: router,
	}

	a.log.Info().Str("addr", a.config.Addr).Msg("starting server")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down")
		if a.listener != nil {
			a.listener.Close()
		}
		a.ws.FlushSync()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// Router builds the HTTP API. Split out so tests can drive it with httptest.
func (a *App) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", a.handleHealth).Methods("GET")

	api.HandleFunc("/sync", a.handleSyncNow).Methods("POST")
	api.HandleFunc("/sync/status", a.handleSyncStatus).Methods("GET")

	api.HandleFunc("/folders", a.handleListFolders).Methods("GET")
	api.HandleFunc("/folders", a.handleCreateFolder).Methods("POST")
	api.HandleFunc("/folders/{id}", a.handleRenameFolder).Methods("PUT")
	api.HandleFunc("/folders/{id}/move", a.handleMoveFolder).Methods("PUT")
	api.HandleFunc("/folders/{id}", a.handleDeleteFolder).Methods("DELETE")

	api.HandleFunc("/documents", a.handleListDocuments).Methods("GET")
	api.HandleFunc("/documents", a.handleCreateDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", a.handleGetDocument).Methods("GET")
	api.HandleFunc("/documents/{id}", a.handleUpdateDocument).Methods("PUT")
	api.HandleFunc("/documents/{id}/move", a.handleMoveDocument).Methods("PUT")
	api.HandleFunc("/documents/{id}", a.handleDeleteDocument).Methods("DELETE")

	api.HandleFunc("/documents/{id}/tags", a.handleAddTag).Methods("POST")
	api.HandleFunc("/documents/{id}/tags/{tag}", a.handleRemoveTag).Methods("DELETE")

	api.HandleFunc("/documents/{id}/versions", a.handleListVersions).Methods("GET")
	api.HandleFunc("/documents/{id}/versions", a.handleSaveVersion).Methods("POST")
	api.HandleFunc("/versions/{id}/restore", a.handleRestoreVersion).Methods("POST")

	api.HandleFunc("/documents/{id}/share", a.handleEnsureShare).Methods("POST")
	api.HandleFunc("/shares/{id}", a.handleDeleteShare).Methods("DELETE")
	api.HandleFunc("/shares/{token}", a.handleResolveShare).Methods("GET")

	router.HandleFunc("/health", a.handleHealth).Methods("GET")

	return router
}
