package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"estimate-backend/internal/middleware"
	"estimate-backend/internal/services"

	"github.com/gorilla/mux"
)

type DocumentHandler struct {
	Service *services.DocumentService
}

func NewDocumentHandler(s *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: s}
}

// Upload stores a project document. Expects multipart form data with a
// "file" part and an optional "category" field.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	category := r.FormValue("category")
	if category == "" {
		category = "other"
	}

	var uploadedBy *int
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		uploadedBy = &userID
	}

	doc, err := h.Service.Upload(r.Context(), projectID, header.Filename,
		header.Header.Get("Content-Type"), category, data, uploadedBy)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

// ListProjectDocuments returns a project's document records
func (h *DocumentHandler) ListProjectDocuments(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	docs, err := h.Service.ListByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

// Download streams a stored document back to the caller
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid document ID", http.StatusBadRequest)
		return
	}

	doc, data, err := h.Service.Download(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Name))
	w.Write(data)
}

// Delete removes a document record and its stored object
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid document ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
