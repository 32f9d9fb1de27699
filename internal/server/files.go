package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"fv-go/internal/fv"
)

// handleUpload handles POST /api/upload — store a new version of a file.
// Expects a multipart form with a "file" part and a "url_path" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, ownerID int64) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	urlPath := r.FormValue("url_path")

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing file or URL path")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("reading upload body", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	rec, err := s.svc.Upload(ownerID, urlPath, header.Filename, header.Header.Get("Content-Type"), content)
	if err != nil {
		var verr *fv.ValidationError
		if errors.As(err, &verr) {
			writeMessage(w, http.StatusBadRequest, "Missing file or URL path")
			return
		}
		s.logger.Error("upload failed", "url_path", urlPath, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "File uploaded successfully",
		"url":     rec.URLPath,
		"version": rec.Version,
	})
}

// fileResponse is the payload shape for GET /api/{path...}.
type fileResponse struct {
	File     filePayload  `json:"file"`
	Revision revisionInfo `json:"revision"`
}

type filePayload struct {
	Data     []byte `json:"data"` // base64 in JSON
	MimeType string `json:"mimeType"`
	Filename string `json:"filename"`
}

type revisionInfo struct {
	Current int64 `json:"current"`
	Newest  int64 `json:"newest"`
}

// handleFetch handles GET /api/{path...}?revision=N — retrieve a stored
// file. Without the revision parameter the newest version is returned.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request, ownerID int64) {
	urlPath := "/" + r.PathValue("path")

	var revision *int64
	if raw := r.URL.Query().Get("revision"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid revision parameter")
			return
		}
		revision = &v
	}

	result, err := s.svc.Fetch(ownerID, urlPath, revision)
	if err != nil {
		switch {
		case errors.Is(err, fv.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "File not found")
		case errors.Is(err, fv.ErrRevisionNotFound):
			writeMessage(w, http.StatusNotFound, "Revision not found")
		default:
			s.logger.Error("fetch failed", "url_path", urlPath, "error", err)
			writeMessage(w, http.StatusInternalServerError, "Error serving file")
		}
		return
	}

	writeJSON(w, http.StatusOK, fileResponse{
		File: filePayload{
			Data:     result.Data,
			MimeType: result.MimeType,
			Filename: result.Filename,
		},
		Revision: revisionInfo{
			Current: result.Current,
			Newest:  result.Newest,
		},
	})
}
