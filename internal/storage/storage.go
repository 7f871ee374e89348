package storage

import "io"

// Storage stores and removes uploaded files addressed by a relative,
// slash-separated path such as "products/1693526400_photo.png".
type Storage interface {
	// Store writes the file under dir/name and returns its relative path.
	Store(dir, name string, r io.Reader) (string, error)
	// Delete removes the file at path. Deleting a missing file is not an error.
	Delete(path string) error
	Exists(path string) bool
}
