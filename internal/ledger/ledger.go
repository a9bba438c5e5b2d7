// Package ledger keeps the done list: the durable record of input files whose
// BLAST run completed. Entries are stored and looked up by base file name.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the ledger file kept inside the input directory.
const FileName = "done_files"

// Ledger is an append-only, newline-delimited list of base file names.
type Ledger struct {
	path string
}

// Open returns the ledger kept in dir. The file is created on first append.
func Open(dir string) *Ledger {
	return &Ledger{path: filepath.Join(dir, FileName)}
}

// Path returns the ledger file location
func (l *Ledger) Path() string {
	return l.path
}

// Entries returns the raw ledger lines in file order, without blank lines
func (l *Ledger) Entries() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ledger %s: %w", l.path, err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", l.path, err)
	}
	return entries, nil
}

// Names returns the ledger as a set
func (l *Ledger) Names() (map[string]bool, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e] = true
	}
	return names, nil
}

// Contains reports whether the base name of file is recorded verbatim
func (l *Ledger) Contains(file string) (bool, error) {
	names, err := l.Names()
	if err != nil {
		return false, err
	}
	return names[Name(file)], nil
}

// Append records the base name of file. Repeated appends are not deduplicated.
func (l *Ledger) Append(file string) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening ledger %s: %w", l.path, err)
	}

	if _, err := f.WriteString(Name(file) + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("appending to ledger %s: %w", l.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing ledger %s: %w", l.path, err)
	}
	return f.Close()
}

// Rewrite replaces the ledger content with entries via a temp file and rename
func (l *Ledger) Rewrite(entries []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, e := range entries {
		if _, err := w.WriteString(e + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("writing temp ledger: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing temp ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting ledger permissions: %w", err)
	}
	return os.Rename(tmp.Name(), l.path)
}

// Name is the canonical form of a ledger entry for file.
func Name(file string) string {
	return filepath.Base(file)
}
