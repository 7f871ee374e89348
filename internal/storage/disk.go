package storage

import (
	"io"
	"os"
	"path"
	"path/filepath"
)

// Disk is a Storage backed by a directory on the local filesystem.
type Disk struct {
	root string
}

// NewDisk creates a Disk rooted at the given directory.
func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

func (d *Disk) Store(dir, name string, r io.Reader) (string, error) {
	rel := path.Join(dir, name)
	full := filepath.Join(d.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return rel, nil
}

func (d *Disk) Delete(p string) error {
	full := filepath.Join(d.root, filepath.FromSlash(p))
	if _, err := os.Stat(full); err != nil {
		return nil
	}
	return os.Remove(full)
}

func (d *Disk) Exists(p string) bool {
	_, err := os.Stat(filepath.Join(d.root, filepath.FromSlash(p)))
	return err == nil
}
