package storage

import (
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
	// tempPrefix marks in-flight writes. Such files are never listed.
	tempPrefix = ".upload-"
)

// Disk is a FileStore backed by a local directory.
// It holds no mutable state and is safe for concurrent use.
type Disk struct {
	root string
}

var _ FileStore = (*Disk)(nil)

// NewDisk returns a Disk rooted at root. The directory is not touched until the first write.
func NewDisk(root string) *Disk {
	return &Disk{root: filepath.Clean(root)}
}

func (d *Disk) Root() string {
	return d.root
}

func (d *Disk) EnsureRoot() error {
	if err := os.MkdirAll(d.root, dirPerm); err != nil {
		return fmt.Errorf("create upload root %s: %w", d.root, err)
	}
	return nil
}

func (d *Disk) Exists() bool {
	fi, err := os.Stat(d.root)
	return err == nil && fi.IsDir()
}

// Write streams r into a temp file next to the target, syncs it and renames it into place.
// Any failure removes the temp file.
func (d *Disk) Write(name string, r io.Reader) (WriteInfo, error) {
	if err := validName(name); err != nil {
		return WriteInfo{}, err
	}

	tmp, err := os.CreateTemp(d.root, tempPrefix+"*")
	if err != nil {
		return WriteInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return WriteInfo{}, fmt.Errorf("copy content: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return WriteInfo{}, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return WriteInfo{}, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return WriteInfo{}, fmt.Errorf("close temp file: %w", err)
	}

	dst := filepath.Join(d.root, name)
	if err := os.Rename(tmpName, dst); err != nil {
		return WriteInfo{}, fmt.Errorf("rename into place: %w", err)
	}
	committed = true

	return WriteInfo{Path: dst, Size: n}, nil
}

func (d *Disk) Open(name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(d.root, name))
}

func (d *Disk) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		entries, err := os.ReadDir(d.root)
		if err != nil {
			return
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tempPrefix) {
				continue
			}
			if !yield(e.Name()) {
				return
			}
		}
	}
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		filepath.Base(name) != name || strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, tempPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
