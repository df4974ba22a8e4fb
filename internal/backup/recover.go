package backup

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// Action es lo que hizo la revisión de arranque con un archivo.
type Action string

const (
	ActionOK       Action = "ok"
	ActionRestored Action = "restored"
	ActionCreated  Action = "created"
)

// Report resume la revisión de un archivo de datos.
type Report struct {
	File     string `json:"file"`
	Action   Action `json:"action"`
	Records  int    `json:"records"`
	Snapshot string `json:"snapshot,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

var errNotArray = errors.New("content is not a JSON array")

// countRecords valida que el contenido sea un arreglo JSON y devuelve su largo.
func countRecords(data []byte) (int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0, errNotArray
	}
	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Recover revisa un archivo de datos al arrancar. Si falta o no es un arreglo
// JSON válido, lo restaura desde la copia válida más reciente; si no hay
// ninguna, crea un arreglo vacío.
func (m *Manager) Recover(path string) (*Report, error) {
	report := &Report{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		n, perr := countRecords(data)
		if perr == nil {
			report.Action = ActionOK
			report.Records = n
			return report, nil
		}
		report.Reason = "corrupted: " + perr.Error()
		log.Printf("⚠️  %s corrupted! Attempting recovery...", report.File)
	case errors.Is(err, os.ErrNotExist):
		report.Reason = "missing"
		log.Printf("⚠️  %s not found! Attempting recovery...", report.File)
	default:
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	snaps, err := listSnapshots(m.snapshotDir(collectionName(path)))
	if err != nil {
		return nil, err
	}
	for _, s := range snaps {
		content, err := os.ReadFile(s.path)
		if err != nil {
			continue
		}
		n, err := countRecords(content)
		if err != nil {
			log.Printf("❌ Failed to recover from backup %s: %v", s.name, err)
			continue
		}
		if err := writeFile(path, content); err != nil {
			return nil, err
		}
		report.Action = ActionRestored
		report.Records = n
		report.Snapshot = s.name
		log.Printf("✅ Recovered %d records into %s from %s", n, report.File, s.name)
		return report, nil
	}

	if err := writeFile(path, []byte("[]")); err != nil {
		return nil, err
	}
	report.Action = ActionCreated
	log.Printf("✅ Created new empty %s", report.File)
	return report, nil
}

// RecoverAll ejecuta Recover sobre cada archivo.
func (m *Manager) RecoverAll(paths []string) ([]*Report, error) {
	reports := make([]*Report, 0, len(paths))
	for _, p := range paths {
		r, err := m.Recover(p)
		if err != nil {
			return reports, fmt.Errorf("recovery of %s failed: %w", p, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// RestoreLatest sobrescribe el archivo con la copia válida más reciente,
// aunque el archivo actual sea válido.
func (m *Manager) RestoreLatest(path string) (*Report, error) {
	snaps, err := listSnapshots(m.snapshotDir(collectionName(path)))
	if err != nil {
		return nil, err
	}
	for _, s := range snaps {
		content, err := os.ReadFile(s.path)
		if err != nil {
			continue
		}
		n, err := countRecords(content)
		if err != nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := writeFile(path, content); err != nil {
			return nil, err
		}
		return &Report{File: filepath.Base(path), Action: ActionRestored, Records: n, Snapshot: s.name}, nil
	}
	return nil, fmt.Errorf("%w for %s", ErrBackupNotFound, filepath.Base(path))
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
