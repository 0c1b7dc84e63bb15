package cstore

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FSStore stores content on the local filesystem under root, fanned out into
// subdirectories derived from the content UUID so no single directory grows
// unbounded.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) Root() string {
	return s.root
}

// contentPath returns root/<aa>/<bb>/<uuid> where aa and bb come from the
// second segment of the UUID.
func (s *FSStore) contentPath(contentUUID string) string {
	uuidParts := strings.Split(contentUUID, "-")
	if len(uuidParts) < 2 || len(uuidParts[1]) < 4 {
		return filepath.Join(s.root, contentUUID)
	}

	return filepath.Join(s.root, uuidParts[1][0:2], uuidParts[1][2:4], contentUUID)
}

func (s *FSStore) Write(contentUUID string, r io.Reader) (int64, error) {
	path := s.contentPath(contentUUID)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, errors.Wrapf(err, "unable to create content dir for %s", contentUUID)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to create content file for %s", contentUUID)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return 0, errors.Wrapf(err, "failed writing content for %s", contentUUID)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return 0, errors.Wrapf(err, "failed closing content for %s", contentUUID)
	}

	return n, nil
}

func (s *FSStore) Read(contentUUID string) (io.ReadCloser, error) {
	f, err := os.Open(s.contentPath(contentUUID))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open content for %s", contentUUID)
	}

	return f, nil
}

func (s *FSStore) Delete(contentUUID string) error {
	if err := os.Remove(s.contentPath(contentUUID)); err != nil {
		return errors.Wrapf(err, "unable to remove content for %s", contentUUID)
	}

	return nil
}

func (s *FSStore) Size(contentUUID string) (int64, error) {
	finfo, err := os.Stat(s.contentPath(contentUUID))
	if err != nil {
		return 0, errors.Wrapf(err, "unable to stat content for %s", contentUUID)
	}

	return finfo.Size(), nil
}
