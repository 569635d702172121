package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"inbox-triage/pkg/log"
)

// Item is one email file pulled from the mailbox directory. Err is set when
// the file could not be read or decoded; the rest of the batch is unaffected.
type Item struct {
	Filename string
	Raw      string
	Err      error
}

// Reader scans a directory of plain-text email files.
type Reader struct {
	l   log.Logger
	dir string
}

// NewReader creates a mailbox reader for the given directory.
func NewReader(l log.Logger, dir string) *Reader {
	return &Reader{l: l, dir: dir}
}

// Dir returns the directory this reader scans.
func (r *Reader) Dir() string {
	return r.dir
}

// List returns the .txt files in the mailbox directory, sorted by filename.
// A missing directory is an error; an empty directory is not.
func (r *Reader) List(ctx context.Context) ([]string, error) {
	info, err := os.Stat(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirNotFound, r.dir)
		}
		return nil, fmt.Errorf("failed to stat mailbox dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirNotFound, r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read mailbox dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	r.l.Debugf(ctx, "mailbox.Reader.List: found %d email files in %s", len(names), r.dir)
	return names, nil
}

// ReadAll loads every listed email file. Read or decode failures are recorded
// per item so one bad file never aborts the batch.
func (r *Reader) ReadAll(ctx context.Context) ([]Item, error) {
	names, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(names))
	for _, name := range names {
		raw, err := r.readFile(name)
		if err != nil {
			r.l.Warnf(ctx, "mailbox.Reader.ReadAll: skipping %s: %v", name, err)
		}
		items = append(items, Item{Filename: name, Raw: raw, Err: err})
	}
	return items, nil
}

func (r *Reader) readFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to read email file: %w", err)
	}
	return decode(data)
}

// decode interprets file bytes as UTF-8 when valid, otherwise falls back to
// Windows-1252 and then Latin-1. Content with NUL bytes is rejected as binary.
func decode(data []byte) (string, error) {
	if bytes.ContainsRune(data, 0) {
		return "", ErrUndecodable
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	if out, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		return string(out), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return string(out), nil
}
