// Package backup guarda copias de los archivos de datos JSON y los recupera al arrancar.
package backup

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Formato de sello de tiempo seguro para nombres de archivo.
const timestampLayout = "2006-01-02T15-04-05.000Z"

// Manager administra el directorio de respaldos.
// Las copias por colección viven en <dir>/<coleccion>/ y los respaldos
// completos en <dir>/<timestamp>/.
type Manager struct {
	dir       string
	retention int
	now       func() time.Time
}

func NewManager(dir string, retention int) *Manager {
	return &Manager{
		dir:       dir,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Dir devuelve el directorio raíz de respaldos.
func (m *Manager) Dir() string {
	return m.dir
}

func collectionName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (m *Manager) snapshotDir(collection string) string {
	return filepath.Join(m.dir, collection)
}

// Snapshot copia el contenido actual del archivo antes de que se modifique.
func (m *Manager) Snapshot(path string) error {
	collection := collectionName(path)
	dir := m.snapshotDir(collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%s.json", collection, m.now().Format(timestampLayout))
	dest := filepath.Join(dir, name)
	// Dos escrituras en el mismo milisegundo no deben pisarse
	for i := 1; fileExists(dest); i++ {
		dest = filepath.Join(dir, fmt.Sprintf("%s-%s-%d.json", collection, m.now().Format(timestampLayout), i))
	}

	if err := copyFile(path, dest); err != nil {
		return err
	}
	return m.prune(dir)
}

// prune conserva solo las retention copias más recientes.
func (m *Manager) prune(dir string) error {
	if m.retention <= 0 {
		return nil
	}
	snaps, err := listSnapshots(dir)
	if err != nil {
		return err
	}
	for _, s := range snaps[min(m.retention, len(snaps)):] {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// <coleccion>-<sello>.json o <coleccion>-<sello>-<n>.json
var snapshotName = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.\d{3}Z)(?:-(\d+))?\.json$`)

type snapshot struct {
	name    string
	path    string
	modTime time.Time
	stamp   string
	seq     int
}

// newer ordena por fecha de modificación; con la misma fecha decide el
// sello del nombre y después el contador.
func (s snapshot) newer(o snapshot) bool {
	if !s.modTime.Equal(o.modTime) {
		return s.modTime.After(o.modTime)
	}
	if s.stamp != o.stamp {
		return s.stamp > o.stamp
	}
	if s.seq != o.seq {
		return s.seq > o.seq
	}
	return s.name > o.name
}

// listSnapshots devuelve las copias .json de un directorio, la más nueva primero.
func listSnapshots(dir string) ([]snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var snaps []snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snap := snapshot{
			name:    e.Name(),
			path:    filepath.Join(dir, e.Name()),
			modTime: info.ModTime(),
		}
		if m := snapshotName.FindStringSubmatch(e.Name()); m != nil {
			snap.stamp = m[1]
			snap.seq, _ = strconv.Atoi(m[2])
		}
		snaps = append(snaps, snap)
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].newer(snaps[j])
	})
	return snaps, nil
}

// BackupAll copia todos los archivos de datos a <dir>/<timestamp>/ y devuelve el sello usado.
func (m *Manager) BackupAll(files []string) (string, error) {
	stamp := m.now().Format(timestampLayout)
	dest := filepath.Join(m.dir, stamp)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}

	log.Printf("📦 Creating backup at: %s", dest)
	for _, f := range files {
		if !fileExists(f) {
			log.Printf("⚠️  File not found: %s", filepath.Base(f))
			continue
		}
		if err := copyFile(f, filepath.Join(dest, filepath.Base(f))); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", f, err)
		}
		log.Printf("✅ Backed up: %s", filepath.Base(f))
	}
	return stamp, nil
}

// ListBackups devuelve los sellos de los respaldos completos, el más nuevo primero.
func (m *Manager) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var stamps []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(timestampLayout, e.Name()); err != nil {
			continue
		}
		stamps = append(stamps, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(stamps)))
	return stamps, nil
}

var ErrBackupNotFound = errors.New("backup not found")

// Restore copia de vuelta los archivos de un respaldo completo.
// Devuelve los nombres restaurados; los que faltan en el respaldo se omiten.
func (m *Manager) Restore(stamp string, files []string) ([]string, error) {
	src := filepath.Join(m.dir, stamp)
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, stamp)
	}

	var restored []string
	for _, f := range files {
		from := filepath.Join(src, filepath.Base(f))
		if !fileExists(from) {
			log.Printf("⚠️  File not found in backup: %s", filepath.Base(f))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			return restored, err
		}
		if err := copyFile(from, f); err != nil {
			return restored, fmt.Errorf("failed to restore %s: %w", f, err)
		}
		restored = append(restored, filepath.Base(f))
	}
	return restored, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
