package history

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Encode writes the game history to w as TOML.
func Encode(w io.Writer, h *GameHistory) error {
	if h == nil {
		return fmt.Errorf("history: game history is nil")
	}

	enc := toml.NewEncoder(w)
	// Use tabs for arrays to match human expectations
	enc.Indent = "\t"
	return enc.Encode(h)
}

// Decode reads a game history written by Encode.
func Decode(r io.Reader) (*GameHistory, error) {
	var h GameHistory
	if _, err := toml.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	if _, err := ParseID(h.GameID); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &h, nil
}

// Load reads a history file.
func Load(path string) (*GameHistory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Save encodes h and writes it to path. Readers see either the previous
// file or the complete new one, never a partial write.
func Save(path string, h *GameHistory) error {
	var buf bytes.Buffer
	if err := Encode(&buf, h); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes(), 0o644)
}

// writeFileAtomic writes to a temp file in the target directory, syncs it
// and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	// Same directory keeps the rename on one filesystem
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	renamed := false
	defer func() {
		tmp.Close()
		if !renamed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	renamed = true
	return nil
}
