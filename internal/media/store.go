// Package media stores uploaded files on local disk and maps them to the
// public URL paths they are served from.
package media

import (
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/goliatone/go-errors"
)

// URLPrefix is the public path uploaded files are served under.
const URLPrefix = "/static"

// DiskStore writes uploads into a single flat directory. File names are
// reduced to their base name so a crafted name cannot escape the
// directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create upload directory")
	}
	return &DiskStore{root: root}, nil
}

// Save writes the content to disk under the given name and returns the URL
// path the file is served from. An existing file with the same name is
// overwritten.
func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", errors.New("invalid file name", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	f, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to create upload file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to write upload file")
	}

	return path.Join(URLPrefix, name), nil
}

// Remove deletes the file behind a URL path returned by Save. A file that
// is already gone is treated as removed.
func (s *DiskStore) Remove(url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return nil
	}

	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove upload file")
	}

	return nil
}
