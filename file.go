// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SelectedFile is a file picked for upload.
//
// Its name and contents don't change after it has been selected.
// Every call to Open yields the contents from the beginning,
// therefore the same SelectedFile can be submitted more than once.
type SelectedFile struct {
	name string
	size int64
	open func() (io.ReadCloser, error)
}

// OpenFile selects a file on disk. Its name will be the last element of 'path'.
//
// The contents are read only when the file gets submitted.
func OpenFile(path string) (*SelectedFile, error) {
	finfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if finfo.IsDir() {
		return nil, &os.PathError{Op: "select", Path: path, Err: errors.New("is a directory")}
	}

	return &SelectedFile{
		name: filepath.Base(path),
		size: finfo.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// NewSelectedFile selects in-memory contents under the given name.
//
// 'content' is copied.
func NewSelectedFile(name string, content []byte) *SelectedFile {
	b := make([]byte, len(content))
	copy(b, content)

	return &SelectedFile{
		name: name,
		size: int64(len(b)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		},
	}
}

// Name is sent as header "X-Filename".
func (f *SelectedFile) Name() string { return f.name }

// Size in bytes, uncompressed, as seen when the file had been selected.
func (f *SelectedFile) Size() int64 { return f.size }

// Open returns a reader for the contents. The caller must close it.
func (f *SelectedFile) Open() (io.ReadCloser, error) { return f.open() }
