package state

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rgehrsitz/wtp/internal/calculation"
)

// StorageKey is the key the workspace record is saved under.
const StorageKey = "retirement-planner-data"

// Manager loads and saves the workspace through a KV store.
type Manager struct {
	kv     KV
	logger calculation.Logger
	now    func() time.Time

	// IncludeAPIKey persists a workspace API key in the record. Off by
	// default.
	IncludeAPIKey bool
}

// NewManager creates a manager over kv.
func NewManager(kv KV) *Manager {
	return &Manager{kv: kv, logger: calculation.NopLogger{}, now: time.Now}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (m *Manager) SetLogger(l calculation.Logger) {
	m.logger = calculation.OrNop(l)
}

// Load returns the saved workspace, or the defaults when nothing is saved.
func (m *Manager) Load(ctx context.Context) (*Workspace, error) {
	data, ok, err := m.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load planner data: %w", err)
	}
	if !ok {
		m.logger.Debugf("no saved data under %q, starting from defaults", StorageKey)
		return Defaults(), nil
	}
	w, err := Decode(data, Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to load planner data: %w", err)
	}
	if w.APIKey != "" {
		m.logger.Warnf("saved data contains a plaintext API key; it will not be written back unless requested")
	}
	return w, nil
}

// Save writes the workspace.
func (m *Manager) Save(ctx context.Context, w *Workspace) error {
	data, err := Encode(w, EncodeOptions{IncludeAPIKey: m.IncludeAPIKey, Now: m.now()})
	if err != nil {
		return fmt.Errorf("failed to encode planner data: %w", err)
	}
	if err := m.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save planner data: %w", err)
	}
	w.UpdatedAt = m.now()
	m.logger.Debugf("saved %d bytes under %q", len(data), StorageKey)
	return nil
}

// Reset clears saved data and returns a default workspace.
func (m *Manager) Reset(ctx context.Context) (*Workspace, error) {
	if err := m.kv.Remove(ctx, StorageKey); err != nil {
		return nil, fmt.Errorf("failed to reset planner data: %w", err)
	}
	return Defaults(), nil
}

// Export writes the workspace as a standalone indented document.
func Export(out io.Writer, w *Workspace, includeAPIKey bool, now time.Time) error {
	data, err := Encode(w, EncodeOptions{IncludeAPIKey: includeAPIKey, Export: true, Indent: true, Now: now})
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import reads an exported document over current.
func Import(in io.Reader, current *Workspace) (*Workspace, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}
	return Decode(data, current)
}

// ExportFileName is the default export name for a given day.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("retirement-plan-%s.json", t.Format("2006-01-02"))
}
