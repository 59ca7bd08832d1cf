package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tsquality/internal/config"
)

var (
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	ErrTemporaryFile       = errors.New("file is a temporary office file")
)

// FileValidator guards uploaded and local input files before parsing
type FileValidator struct {
	logger     *slog.Logger
	extensions map[string]struct{}
	maxBytes   int64
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger, upload config.UploadConfig) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	exts := make(map[string]struct{}, len(upload.AllowedExtensions))
	for _, ext := range upload.AllowedExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &FileValidator{
		logger:     logger,
		extensions: exts,
		maxBytes:   upload.MaxBytes(),
	}
}

// MaxBytes returns the upload size limit
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// Extensions returns the allowed extensions in sorted order
func (v *FileValidator) Extensions() []string {
	out := make([]string, 0, len(v.extensions))
	for ext := range v.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ValidateUpload checks the name and size of an upload
func (v *FileValidator) ValidateUpload(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := v.extensions[ext]; !ok {
		v.logger.Warn("Rejected upload extension",
			slog.String("file", name),
			slog.String("extension", ext))
		return fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
	}

	if strings.HasPrefix(filepath.Base(name), "~$") {
		v.logger.Warn("Rejected temporary office file",
			slog.String("file", name))
		return fmt.Errorf("%w: %s", ErrTemporaryFile, name)
	}

	if size == 0 {
		v.logger.Warn("Rejected empty upload",
			slog.String("file", name))
		return ErrEmptyFile
	}

	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Rejected oversized upload",
			slog.String("file", name),
			slog.Int64("size", size),
			slog.Int64("max_size", v.maxBytes))
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, v.maxBytes)
	}

	return nil
}

// ValidateFile checks that a local file exists, is readable and passes the
// upload rules
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	if err := v.ValidateUpload(filepath.Base(path), info.Size()); err != nil {
		return err
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
