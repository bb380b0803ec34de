package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bacicli/internal/config"
)

// Manager owns writes into the report's output tree. Relative paths carry a
// directory prefix ("charts/", "tables/", "graphs/", "logs/", "input/") that
// selects the configured directory; anything else lands in the output root.
type Manager struct {
	paths *config.Paths
}

func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// Resolve maps a prefixed relative path to its absolute location.
// Absolute paths are returned unchanged.
func (m *Manager) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	prefix, rest, found := strings.Cut(path, "/")
	if !found {
		return filepath.Join(m.paths.OutputDir, path)
	}
	switch prefix {
	case "charts":
		return m.paths.GetChartPath(rest)
	case "tables":
		return m.paths.GetTablePath(rest)
	case "graphs":
		return m.paths.GetGraphPath(rest)
	case "logs":
		return m.paths.GetLogPath(rest)
	case "input":
		return filepath.Join(m.paths.InputDir, rest)
	}
	return filepath.Join(m.paths.OutputDir, path)
}

// WriteFile stores data at path atomically
func (m *Manager) WriteFile(path string, data []byte) error {
	return m.WriteWith(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteWith streams whatever write produces into a hidden temporary file next
// to the target and renames it over the target once write, sync and close
// all succeed. On failure the previous file, if any, is untouched.
func (m *Manager) WriteWith(path string, write func(w io.Writer) error) error {
	target := m.Resolve(path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", target, err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	err = write(tmp)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), target)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	slog.Debug("file written", slog.String("path", target))
	return nil
}

// Prune deletes the regular files directly under dir (a prefix such as
// "charts/") whose prefixed name is not in keep, and returns the prefixed
// names it removed. Dot files are left alone; a missing dir prunes nothing.
func (m *Manager) Prune(dir string, keep []string) ([]string, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	entries, err := os.ReadDir(m.Resolve(prefix))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		kept[k] = struct{}{}
	}

	var removed []string
	for _, entry := range entries {
		rel := prefix + entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := kept[rel]; ok {
			continue
		}
		if err := os.Remove(m.Resolve(rel)); err != nil {
			return removed, fmt.Errorf("prune %s: %w", rel, err)
		}
		removed = append(removed, rel)
	}
	return removed, nil
}
