package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"instarecon/pkg/errors"
)

// Manager owns one target's output directory and the files written to it
type Manager struct {
	outputDir string
	written   []string
	mu        sync.RWMutex
}

// TargetDirName is the directory name used for a target's reports
func TargetDirName(username string) string {
	return username + "_recon"
}

// NewManager creates the output directory if needed
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeStorage, err, "failed to create output directory %s", outputDir)
	}

	return &Manager{outputDir: outputDir}, nil
}

// NewTargetManager creates <base>/<username>_recon. The username must be a
// single path element.
func NewTargetManager(base, username string) (*Manager, error) {
	if !validName(username) {
		return nil, errors.New(errors.ErrorTypeStorage, 0, "invalid target name %q", username)
	}
	return NewManager(filepath.Join(base, TargetDirName(username)))
}

// Path returns the full path of name inside the output directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// SaveFile writes the reader's contents to name via a temp file and rename
func (m *Manager) SaveFile(name string, r io.Reader) (string, error) {
	if !validName(name) {
		return "", errors.New(errors.ErrorTypeStorage, 0, "invalid file name %q", name)
	}

	filename := m.Path(name)
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeStorage, err, "failed to create temporary file")
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeStorage, err, "failed to write %s", name)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeStorage, closeErr, "failed to close %s", name)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeStorage, err, "failed to rename temporary file")
	}

	m.mu.Lock()
	m.written = append(m.written, filename)
	m.mu.Unlock()

	return filename, nil
}

// WriteFile is SaveFile for in-memory data
func (m *Manager) WriteFile(name string, data []byte) (string, error) {
	return m.SaveFile(name, bytes.NewReader(data))
}

// Exists reports whether name is present in the output directory
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Written returns the paths written so far, in order
func (m *Manager) Written() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.written...)
}

func (m *Manager) String() string {
	return fmt.Sprintf("storage(%s)", m.outputDir)
}

// validName rejects anything that is not a single path element
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
