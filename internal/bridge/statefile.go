package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StateFile is the shared-state file polled by the watch loop. Writes are
// atomic, so readers never see a partial payload.
type StateFile struct {
	Path string
}

// Write replaces the file contents with p.
func (f StateFile) Write(p Payload) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Read returns the current payload. A missing or empty file reports false.
func (f StateFile) Read() (Payload, bool, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Payload{}, false, nil
	}
	if err != nil {
		return Payload{}, false, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return Payload{}, false, nil
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, false, fmt.Errorf("decode state file %s: %w", f.Path, err)
	}
	return p, true, nil
}

// Publish implements Publisher by writing the payload.
func (f StateFile) Publish(_ context.Context, p Payload) error {
	return f.Write(p)
}
