package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	apperrors "bacicli/internal/errors"
)

// FileInfo describes one discovered input file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery resolves input files relative to a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) fullPath(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindFilesByPattern lists the regular files in dir whose base name matches
// the glob pattern, in name order. Subdirectories are not descended.
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	root := d.fullPath(dir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	// ReadDir already returns entries sorted by name
	var files []FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(pattern, entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(root, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// FindTradeFiles returns the trade files matching pattern in name order,
// truncated to the first limit entries. A limit of zero or less keeps all.
// Zero matches is a not-found error.
func (d *Discovery) FindTradeFiles(dir, pattern string, limit int) ([]FileInfo, error) {
	files, err := d.FindFilesByPattern(dir, pattern)
	if err != nil {
		return nil, d.discoveryError("trade file discovery failed", dir, err)
	}

	if len(files) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("trade files matching %q in %s", pattern, d.fullPath(dir)))
	}

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	return files, nil
}

// FindCodeTable returns the single code table matching pattern. When a
// directory holds several releases the lexically last name wins.
func (d *Discovery) FindCodeTable(dir, pattern string) (FileInfo, error) {
	files, err := d.FindFilesByPattern(dir, pattern)
	if err != nil {
		return FileInfo{}, d.discoveryError("code table discovery failed", dir, err)
	}

	if len(files) == 0 {
		return FileInfo{}, apperrors.NewNotFoundError(fmt.Sprintf("code table matching %q in %s", pattern, d.fullPath(dir)))
	}

	return files[len(files)-1], nil
}

// discoveryError reports a missing input directory as not-found and any
// other listing failure as a storage error
func (d *Discovery) discoveryError(msg, dir string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewAppError(apperrors.ErrTypeNotFound, "input directory "+d.fullPath(dir)+" not found", err)
	}
	return apperrors.NewStorageError(msg, err)
}

// TotalSize sums the size of the given files
func TotalSize(files []FileInfo) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}
