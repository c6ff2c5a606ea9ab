package handler

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/service"
	"github.com/sakif/imagevault/internal/session"
)

const uploadForm = `<form method="post" action="/" enctype="multipart/form-data">
<p><input type="file" name="file" multiple required></p>
<p><button type="submit">Upload</button></p>
</form>
<p><a href="/logout">Log out</a></p>`

// VaultHandler serves the file listing, upload, download, and delete
// routes. All routes sit behind the auth middleware; the current user
// comes from the request context.
type VaultHandler struct {
	vault          *service.VaultService
	flashes        *session.FlashStore
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewVaultHandler creates a VaultHandler.
func NewVaultHandler(vault *service.VaultService, flashes *session.FlashStore, maxUploadBytes int64, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vault:          vault,
		flashes:        flashes,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HandleIndex lists the current user's files, newest first, with the
// upload form.
//
// HTTP: GET /
func (h *VaultHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	files, err := h.vault.List(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.flashes, h.logger, err, "/")
		return
	}

	var body strings.Builder
	body.WriteString(uploadForm)
	if len(files) == 0 {
		body.WriteString("<p>No files uploaded yet.</p>\n")
	} else {
		body.WriteString("<ul>\n")
		for _, f := range files {
			fmt.Fprintf(&body,
				`<li>%s (%s) — <a href="/download/%s">download</a> | <a href="/delete/%s">delete</a></li>`+"\n",
				html.EscapeString(f.OriginalName),
				f.UploadedAt.Format("2006-01-02 15:04"),
				f.ID,
				f.ID,
			)
		}
		body.WriteString("</ul>\n")
	}

	renderPage(w, r, h.flashes, http.StatusOK, "Your Files", body.String())
}

// HandleUpload accepts one or more files from the multipart form field
// "file". Each file's outcome is flashed independently — a rejected file
// never stops the rest of the batch. The whole request body is capped at
// the configured maximum.
//
// HTTP: POST /
func (h *VaultHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		redirectWithFlash(w, r, h.flashes, "/", "Upload too large or malformed")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		redirectWithFlash(w, r, h.flashes, "/", "No selected files")
		return
	}

	// Open every part up front; parts that fail to open get their own
	// flash, like any other per-file failure.
	incoming := make([]service.IncomingFile, 0, len(headers))
	var opened []io.Closer
	for _, hdr := range headers {
		part, err := hdr.Open()
		if err != nil {
			h.flashes.Add(w, r, fmt.Sprintf("Error while reading file %s", hdr.Filename))
			continue
		}
		opened = append(opened, part)
		incoming = append(incoming, service.IncomingFile{Name: hdr.Filename, Data: part})
	}
	defer func() {
		for _, c := range opened {
			c.Close()
		}
	}()

	for _, res := range h.vault.Upload(r.Context(), userID, incoming) {
		h.flashes.Add(w, r, res.Message)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDownload streams a file back as an attachment, suggesting the
// original (not the generated) filename. Ownership violations and missing
// files become flashes on the listing page.
//
// HTTP: GET /download/{fileID}
func (h *VaultHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	fileID := chi.URLParam(r, "fileID")
	rc, file, err := h.vault.Download(r.Context(), userID, fileID)
	if err != nil {
		handleError(w, r, h.flashes, h.logger, err, "/")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": file.OriginalName}))
	w.Header().Set("Content-Type", "application/octet-stream")

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is log the broken transfer.
		h.logger.Warn("download interrupted",
			slog.String("fileID", fileID),
			slog.String("error", err.Error()),
		)
	}
}

// HandleDelete removes a file when the requester owns it.
//
// HTTP: GET /delete/{fileID}
func (h *VaultHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	fileID := chi.URLParam(r, "fileID")
	if err := h.vault.Delete(r.Context(), userID, fileID); err != nil {
		handleError(w, r, h.flashes, h.logger, err, "/")
		return
	}

	redirectWithFlash(w, r, h.flashes, "/", "File deleted successfully")
}
