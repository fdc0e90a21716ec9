package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/linecheck/internal/core"
)

// multipartMemory is how much of a form is buffered before spilling to disk.
const multipartMemory = 8 << 20

var (
	errBadForm  = errors.New("invalid upload form")
	errTooLarge = errors.New("file too large")
)

// upload is a received file spooled to a private temp path.
type upload struct {
	Path     string
	Filename string
	Size     int64
}

// receiveUpload reads the "file" part of a multipart request into a temp
// file. The returned cleanup removes it and must always be called.
func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) (upload, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return upload{}, noop, fmt.Errorf("%w: limit is %d bytes", errTooLarge, s.cfg.Upload.MaxFileSize)
		}
		return upload{}, noop, fmt.Errorf("%w: %v", errBadForm, err)
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return upload{}, noop, core.ErrEmptyPath
	}
	if err != nil {
		return upload{}, noop, fmt.Errorf("%w: %v", errBadForm, err)
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if allowed := s.cfg.Upload.AllowedExtensions; len(allowed) > 0 && !slices.Contains(allowed, ext) {
		return upload{}, noop, fmt.Errorf("%w %q", errUnsupportedType, ext)
	}

	path := filepath.Join(os.TempDir(), "linecheck-"+uuid.NewString()+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return upload{}, noop, fmt.Errorf("spool upload: %w", err)
	}

	cleanup := func() {
		os.Remove(path)
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}

	n, err := io.Copy(f, file)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return upload{}, noop, fmt.Errorf("spool upload: %w", err)
	}

	return upload{Path: path, Filename: name, Size: n}, cleanup, nil
}

// overridesFrom reads the optional delimiter, names, and types form fields.
func overridesFrom(r *http.Request) core.Overrides {
	return core.Overrides{
		Delimiter: r.FormValue("delimiter"),
		Names:     r.FormValue("names"),
		Types:     r.FormValue("types"),
	}
}

// processOptions applies the optional detectHeader form field to the
// configured default.
func (s *Server) processOptions(r *http.Request) core.ProcessOptions {
	opts := s.cfg.Process.Core()
	switch strings.ToLower(r.FormValue("detectHeader")) {
	case "false", "0", "no":
		opts.DetectHeader = false
	case "true", "1", "yes":
		opts.DetectHeader = true
	}
	return opts
}
