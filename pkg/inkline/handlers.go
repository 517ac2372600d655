package inkline

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/inkline/inkline/pkg/models"
	"github.com/inkline/inkline/pkg/workspace"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps workspace errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workspace.ErrFolderNotFound),
		errors.Is(err, workspace.ErrDocumentNotFound),
		errors.Is(err, workspace.ErrVersionNotFound),
		errors.Is(err, workspace.ErrShareNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workspace.ErrCyclicFolderMove):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, _ := a.ws.SyncStatus()
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"sync":   status,
		"time":   time.Now().Unix(),
	})
}

// Sync

func (a *App) handleSyncNow(w http.ResponseWriter, r *http.Request) {
	err := a.ws.SyncNow(r.Context())
	status, msg := a.ws.SyncStatus()
	payload := map[string]any{"status": status}
	if msg != "" {
		payload["error"] = msg
	}
	if err != nil {
		respondJSON(w, http.StatusBadGateway, payload)
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (a *App) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	status, msg := a.ws.SyncStatus()
	payload := map[string]any{"status": status}
	if msg != "" {
		payload["error"] = msg
	}
	respondJSON(w, http.StatusOK, payload)
}

// Folders

func (a *App) handleListFolders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.ws.Folders())
}

func (a *App) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		ParentID *string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	parentID, err := parseOptionalFolderID(req.ParentID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	folder, err := a.ws.CreateFolder(r.Context(), req.Name, parentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, folder)
}

func (a *App) handleRenameFolder(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseFolderID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	folder, err := a.ws.RenameFolder(r.Context(), id, req.Name)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

func (a *App) handleMoveFolder(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseFolderID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		ParentID *string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	parentID, err := parseOptionalFolderID(req.ParentID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	folder, err := a.ws.MoveFolder(r.Context(), id, parentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

func (a *App) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseFolderID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.ws.DeleteFolder(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Documents

func (a *App) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.ws.Documents())
}

func (a *App) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string  `json:"title"`
		FolderID *string `json:"folderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	folderID, err := parseOptionalFolderID(req.FolderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.ws.CreateDocument(r.Context(), folderID, req.Title)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func (a *App) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.ws.Document(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (a *App) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Title       *string `json:"title"`
		ContentMD   *string `json:"contentMd"`
		ContentHTML *string `json:"contentHtml"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := a.ws.UpdateDocument(r.Context(), id, workspace.DocumentPatch{
		Title:       req.Title,
		ContentMD:   req.ContentMD,
		ContentHTML: req.ContentHTML,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (a *App) handleMoveDocument(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		FolderID *string `json:"folderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	folderID, err := parseOptionalFolderID(req.FolderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.ws.MoveDocument(r.Context(), id, folderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (a *App) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.ws.DeleteDocument(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Tags

func (a *App) handleAddTag(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Tag string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tag == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := a.ws.AddTag(r.Context(), id, req.Tag)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (a *App) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := models.ParseDocumentID(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.ws.RemoveTag(r.Context(), id, vars["tag"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Versions

func (a *App) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, a.ws.VersionsForDocument(id))
}

func (a *App) handleSaveVersion(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	version, err := a.ws.SaveVersion(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, version)
}

func (a *App) handleRestoreVersion(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseVersionID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.ws.RestoreVersion(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Shares

func (a *App) handleEnsureShare(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	share, err := a.ws.EnsureShare(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, share)
}

func (a *App) handleDeleteShare(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseShareID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.ws.DeleteShare(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleResolveShare is the public share endpoint: it returns the shared
// document's title and content and nothing about the owner.
func (a *App) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	doc, share, err := a.ws.ResolveShare(r.Context(), token)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"title":       doc.Title,
		"contentMd":   doc.ContentMD,
		"contentHtml": doc.ContentHTML,
		"mode":        share.Mode,
	})
}

func parseOptionalFolderID(raw *string) (*models.FolderID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := models.ParseFolderID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
