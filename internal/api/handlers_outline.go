package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rehierl/html-outliner/internal/doctree"
	"github.com/rehierl/html-outliner/internal/outline"
	"github.com/rehierl/html-outliner/internal/parser"
	"github.com/rehierl/html-outliner/internal/pipeline"
)

// handleOutline outlines one document synchronously. The document is either
// the multipart "file" field or the raw request body; the latter takes its
// name from the "filename" parameter.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	req, status, err := s.readRequest(r)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	res, err := s.orchestrator.Worker().Outline(r.Context(), req)
	if err != nil {
		writeOutlineError(w, err)
		return
	}

	if wantsText(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := doctree.Render(w, res.Tree); err != nil {
			s.log.Warn("render failed", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) readRequest(r *http.Request) (pipeline.Request, int, error) {
	var req pipeline.Request

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return req, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return req, http.StatusBadRequest, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()
		req.Filename = sanitizeFilename(header.Filename)
		req.Data, err = s.readLimited(file)
		if err != nil {
			return req, http.StatusRequestEntityTooLarge, err
		}
	} else {
		req.Filename = sanitizeFilename(r.URL.Query().Get("filename"))
		if req.Filename == "unnamed" {
			req.Filename = "document.html"
		}
		data, err := s.readLimited(r.Body)
		if err != nil {
			return req, http.StatusRequestEntityTooLarge, err
		}
		req.Data = data
	}

	if err := s.applyParams(r, &req); err != nil {
		return req, http.StatusBadRequest, err
	}
	if len(req.Data) == 0 {
		return req, http.StatusBadRequest, errors.New("document is empty")
	}
	return req, 0, nil
}

// applyParams reads format, title, root and outline option keys from the
// query string or form.
func (s *Server) applyParams(r *http.Request, req *pipeline.Request) error {
	req.Format = r.FormValue("format")
	req.Title = r.FormValue("title")
	req.Root = r.FormValue("root")

	if req.Format == "" && !parser.IsSupportedExtension(req.Filename) {
		return fmt.Errorf("unsupported file type: %q", filepath.Ext(req.Filename))
	}

	for _, key := range outline.Keys() {
		if v := r.FormValue(key); v != "" {
			if req.Options == nil {
				req.Options = make(map[string]string)
			}
			req.Options[key] = v
		}
	}
	return nil
}

func (s *Server) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func (s *Server) handleBatchOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)

		var params pipeline.Request
		params.Filename = filename
		if err := s.applyParams(r, &params); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}
		data, err := s.readLimited(f)
		f.Close()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "file too large or read error",
			})
			continue
		}

		job := pipeline.NewJob(filename, data)
		job.Format = params.Format
		job.Title = params.Title
		job.Root = params.Root
		job.Options = params.Options

		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"doc_id":   job.DocID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

// writeOutlineError maps pipeline and engine errors to HTTP responses.
// Input problems are 400; well-formed input that cannot be outlined is 422.
func writeOutlineError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": err.Error()}
	code := http.StatusInternalServerError

	var oe *outline.Error
	switch {
	case errors.As(err, &oe):
		body["code"] = string(oe.Code)
		if oe.Path != "" {
			body["path"] = oe.Path
		}
		code = http.StatusUnprocessableEntity
		if oe.Code == outline.CodeInvalidOptions {
			code = http.StatusBadRequest
		}
	case errors.Is(err, pipeline.ErrUnsupported), errors.Is(err, pipeline.ErrParse):
		code = http.StatusBadRequest
	case errors.Is(err, pipeline.ErrRoot):
		body["code"] = string(outline.CodeInvalidRoot)
		code = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, body)
}

func wantsText(r *http.Request) bool {
	return r.URL.Query().Get("render") == "text" ||
		strings.HasPrefix(r.Header.Get("Accept"), "text/plain")
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
