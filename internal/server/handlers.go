package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dnaconvert/dnaconvert/pkg/buildinfo"
	"github.com/dnaconvert/dnaconvert/pkg/convert"
	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format/formats"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

// WarningsHeader carries the JSON-encoded warnings of an upload conversion.
const WarningsHeader = "X-Dnaconvert-Warnings"

// =============================================================================
// Request/Response Types
// =============================================================================

// FormatInfo describes one registry entry.
type FormatInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Extension   string   `json:"extension"`
	Readable    bool     `json:"readable"`
	Writable    bool     `json:"writable"`
	Fields      []string `json:"fields"`
}

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	Content                  string `json:"content"`
	InputFormat              string `json:"input_format"`
	OutputFormat             string `json:"output_format"`
	AllowEmptySequences      bool   `json:"allow_empty_sequences"`
	DisableAutomaticRenaming bool   `json:"disable_automatic_renaming"`
}

// ConvertResponse is the body of a successful POST /api/convert.
type ConvertResponse struct {
	ID       string         `json:"id"`
	Output   string         `json:"output"`
	Warnings []warn.Warning `json:"warnings"`
	Stats    convert.Stats  `json:"stats"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	out := make([]FormatInfo, 0, len(formats.All))
	for _, d := range formats.All {
		out = append(out, FormatInfo{
			Name:        d.Name,
			Description: d.Description,
			Extension:   d.Extension,
			Readable:    d.Readable(),
			Writable:    d.Writable(),
			Fields:      d.Fields,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	body := http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	for _, name := range []string{req.InputFormat, req.OutputFormat} {
		if err := errors.ValidateFormatName(name); err != nil {
			s.writeError(w, err)
			return
		}
	}
	opts := s.options(req.AllowEmptySequences, req.DisableAutomaticRenaming)

	var out bytes.Buffer
	s.mu.Lock()
	res, err := s.runner.Convert(r.Context(), strings.NewReader(req.Content), &out,
		req.InputFormat, req.OutputFormat, opts)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []warn.Warning{}
	}
	writeJSON(w, http.StatusOK, ConvertResponse{
		ID:       res.ID,
		Output:   out.String(),
		Warnings: warnings,
		Stats:    res.Stats,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse upload"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files[]"]
	if len(files) == 0 {
		files = r.MultipartForm.File["files"]
	}
	if len(files) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "no files uploaded"))
		return
	}

	from := r.FormValue("input_format")
	to := r.FormValue("output_format")
	if _, err := formats.Resolve(to); err != nil {
		s.writeError(w, err)
		return
	}
	opts := s.options(formBool(r, "allow_empty_sequences"), formBool(r, "disable_automatic_renaming"))

	work, err := os.MkdirTemp("", "dnaconvert-"+uuid.NewString()[:8]+"-")
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeIO, err, "create workspace"))
		return
	}
	defer func() { _ = os.RemoveAll(work) }()
	inDir, outDir := filepath.Join(work, "in"), filepath.Join(work, "out")

	if err := saveUploads(inDir, files); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	batch, err := s.runner.ConvertDir(r.Context(), inDir, outDir, from, to, opts)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if batch.Converted == 0 {
		s.writeError(w, firstError(batch))
		return
	}

	var archive bytes.Buffer
	if err := convert.ZipDir(outDir, &archive); err != nil {
		s.writeError(w, err)
		return
	}

	warnings, _ := json.Marshal(batch.Warnings())
	w.Header().Set(WarningsHeader, string(warnings))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="converted.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive.Bytes())
}

// =============================================================================
// Helpers
// =============================================================================

// options applies request flags on top of the configured defaults.
func (s *Server) options(allowEmpty, disableRenaming bool) convert.Options {
	opts := s.defaults
	opts.AllowEmptySequences = opts.AllowEmptySequences || allowEmpty
	opts.DisableAutomaticRenaming = opts.DisableAutomaticRenaming || disableRenaming
	return opts
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.FormValue(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// saveUploads writes the uploaded files into dir under sanitized, unique
// names that keep their extension. Names with path elements are rejected.
func saveUploads(dir string, files []*multipart.FileHeader) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
	}
	names := naming.NewUnlimited("_")
	for _, fh := range files {
		if err := errors.ValidateUploadFilename(fh.Filename); err != nil {
			return err
		}
		base := fh.Filename
		ext := strings.ToLower(filepath.Ext(base))
		if ext == ".gz" {
			inner := strings.TrimSuffix(base, filepath.Ext(base))
			ext = strings.ToLower(filepath.Ext(inner)) + ext
		}
		stem := naming.Sanitize(strings.TrimSuffix(base, base[len(base)-len(ext):]))
		if stem == "" {
			stem = "upload"
		}
		if err := saveUpload(filepath.Join(dir, names.Unique(stem)+ext), fh); err != nil {
			return err
		}
	}
	return nil
}

func saveUpload(path string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open upload %s", fh.Filename)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "save upload %s", fh.Filename)
	}
	if err := dst.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "save upload %s", fh.Filename)
	}
	return nil
}

func firstError(b *convert.BatchResult) error {
	for _, f := range b.Files {
		if f.Err != nil {
			return f.Err
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "no convertible files uploaded")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes an ErrorResponse.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errors.ErrCodeInvalidFormat), errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidPath):
		return http.StatusBadRequest
	case errors.IsFormatError(err), errors.IsFieldError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
