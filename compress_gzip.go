// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !nogzip
// +build !nogzip

package gzupload

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

func init() {
	DefaultCompressor = newGzipWriter
}

func newGzipWriter(dst io.Writer, level int) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(dst, level)
}
