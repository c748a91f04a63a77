package common

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileInfo captures the lstat facts the engine needs about one path.
type FileInfo struct {
	Path      string
	Size      int64
	IsDir     bool
	IsSymlink bool
	Mode      fs.FileMode
}

// FileReadOptions controls file reading behavior
type FileReadOptions struct {
	// MaxSize limits how many bytes are read; 0 means unlimited.
	MaxSize int64
}

// DefaultFileReadOptions returns sensible defaults for reading files
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{
		MaxSize: 100 * 1024 * 1024, // 100MB
	}
}

// FileManager provides high-level file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileInfo returns lstat-based information about a path without
// following symlinks, so broken links still resolve.
func (fm *FileManager) GetFileInfo(path string) (*FileInfo, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil, WrapErrorf(ErrNotFound, "path '%s'", path)
	}
	if err != nil {
		return nil, WrapError(err, "failed to stat path: "+path)
	}

	return &FileInfo{
		Path:      path,
		Size:      info.Size(),
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&fs.ModeSymlink != 0,
		Mode:      info.Mode(),
	}, nil
}

// ReadFile reads a file with the given options
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, "failed to open file: "+path)
	}
	defer file.Close()

	var reader io.Reader = file
	if opts.MaxSize > 0 {
		reader = io.LimitReader(file, opts.MaxSize)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, WrapError(err, "failed to read file: "+path)
	}

	return data, nil
}

// ReadFirstBytes reads at most n leading bytes of a file. Used by the
// classifier's byte-signature probe; short files return what they have.
func (fm *FileManager) ReadFirstBytes(path string, n int) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, "failed to open file: "+path)
	}
	defer file.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(file, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return buf[:read], nil
	}
	if err != nil {
		return nil, WrapError(err, "failed to read file head: "+path)
	}
	return buf, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if fm.FileExists(path) {
		info, err := fm.GetFileInfo(path)
		if err != nil {
			return WrapError(err, "failed to check directory: "+path)
		}
		if !info.IsDir {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	return nil
}

// WriteFile writes data to a file, creating parent directories as needed
func (fm *FileManager) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := fm.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return WrapError(err, "failed to write file: "+path)
	}

	return nil
}
