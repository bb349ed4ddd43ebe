// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package staging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jeranaias/datachat-tui/internal/logger"
	"github.com/jeranaias/datachat-tui/internal/util"
)

// =============================================================================
// ACCEPTED TYPES
// =============================================================================

// acceptedMediaTypes are the declared types that pass validation on their own.
var acceptedMediaTypes = map[string]bool{
	"text/csv":                     true,
	"application/csv":              true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
	"application/x-zip":            true,
}

// acceptedExtensions are the name suffixes that pass validation on their own.
var acceptedExtensions = map[string]bool{
	".csv": true,
	".zip": true,
}

// PlaceholderLabel is shown when nothing is staged.
const PlaceholderLabel = "Drop a CSV or ZIP file here, or press ctrl+o to select one."

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnsupportedType is wrapped by every ValidationError.
	ErrUnsupportedType = errors.New("only CSV or ZIP files are accepted")
	// ErrNotRegularFile is returned by FromPath for directories and devices.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrTooLarge is returned by FromPath when the file exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds the upload limit")
)

// ValidationError reports a candidate that is neither a CSV nor a ZIP file.
type ValidationError struct {
	Name      string
	MediaType string
}

func (e *ValidationError) Error() string {
	if e.MediaType == "" {
		return fmt.Sprintf("%s: %v", e.Name, ErrUnsupportedType)
	}
	return fmt.Sprintf("%s (%s): %v", e.Name, e.MediaType, ErrUnsupportedType)
}

func (e *ValidationError) Unwrap() error {
	return ErrUnsupportedType
}

// =============================================================================
// CANDIDATE & STAGED FILE
// =============================================================================

// Candidate is a file offered for staging.
type Candidate struct {
	Name      string
	MediaType string
	Size      int64
	// Path is set when the candidate came from the filesystem.
	Path string
	// Open returns a fresh reader over the file's bytes.
	Open func() (io.ReadCloser, error)
}

// FromBytes builds a candidate over an in-memory payload.
func FromBytes(name, mediaType string, data []byte) Candidate {
	return Candidate{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromPath builds a candidate from a file on disk. The media type is sniffed
// from the content. maxBytes of 0 disables the size check.
func FromPath(path string, maxBytes int64) (Candidate, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return Candidate{}, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Candidate{}, fmt.Errorf("%s is %d bytes: %w", path, info.Size(), ErrTooLarge)
	}

	mt, err := mimetype.DetectFile(abs)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Candidate{
		Name:      info.Name(),
		MediaType: mt.String(),
		Size:      info.Size(),
		Path:      abs,
		Open: func() (io.ReadCloser, error) {
			return os.Open(abs)
		},
	}, nil
}

// StagedFile is a validated candidate.
type StagedFile struct {
	Name      string
	MediaType string
	// Extension is the lower-cased name suffix, including the dot.
	Extension string
	Size      int64
	Path      string
	open      func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the staged bytes.
func (f StagedFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("%s: no byte source", f.Name)
	}
	return f.open()
}

// =============================================================================
// VALIDATION
// =============================================================================

// normalizeMediaType lower-cases a media type and drops its parameters.
func normalizeMediaType(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		return mt
	}
	return strings.ToLower(declared)
}

// Validate checks a candidate without staging it.
func Validate(c Candidate) error {
	mt := normalizeMediaType(c.MediaType)
	ext := strings.ToLower(filepath.Ext(c.Name))
	if acceptedMediaTypes[mt] || acceptedExtensions[ext] {
		return nil
	}
	return &ValidationError{Name: c.Name, MediaType: mt}
}

// =============================================================================
// STAGER
// =============================================================================

// Stager holds at most one staged file.
type Stager struct {
	current *StagedFile
	log     *slog.Logger
}

// New creates an empty stager.
func New() *Stager {
	return &Stager{log: logger.ComponentLogger("staging")}
}

// Stage validates c and, on success, replaces the staged file. On failure
// the staged file is left untouched and a *ValidationError is returned.
func (s *Stager) Stage(c Candidate) (StagedFile, error) {
	if err := Validate(c); err != nil {
		s.log.Info("file rejected", "name", c.Name, "mediaType", c.MediaType)
		return StagedFile{}, err
	}

	f := StagedFile{
		Name:      util.NormalizeName(c.Name),
		MediaType: normalizeMediaType(c.MediaType),
		Extension: strings.ToLower(filepath.Ext(c.Name)),
		Size:      c.Size,
		Path:      c.Path,
		open:      c.Open,
	}
	s.current = &f
	s.log.Info("file staged", "name", f.Name, "mediaType", f.MediaType, "size", f.Size)
	return f, nil
}

// Clear empties the stager. Clearing an empty stager does nothing.
func (s *Stager) Clear() {
	if s.current != nil {
		s.log.Debug("staged file cleared", "name", s.current.Name)
	}
	s.current = nil
}

// Current returns the staged file, if any.
func (s *Stager) Current() (StagedFile, bool) {
	if s.current == nil {
		return StagedFile{}, false
	}
	return *s.current, true
}

// HasFile reports whether a file is staged.
func (s *Stager) HasFile() bool {
	return s.current != nil
}

// Label returns the display label for the staging area.
func (s *Stager) Label() string {
	if s.current == nil {
		return PlaceholderLabel
	}
	return "✅ Selected file: " + s.current.Name
}
