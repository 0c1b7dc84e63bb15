// Package cstore is the content store boundary. File bytes are addressed by the
// file's content UUID, never by name, so renames and moves never touch content.
package cstore

import "io"

type Store interface {
	// Write stores the bytes from r under contentUUID and returns the byte count.
	Write(contentUUID string, r io.Reader) (int64, error)

	Read(contentUUID string) (io.ReadCloser, error)

	Delete(contentUUID string) error

	Size(contentUUID string) (int64, error)
}
