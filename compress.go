// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
)

// Compressor wraps 'dst' so that anything written to the result ends up gzip compressed in 'dst'.
//
// Closing the returned writer must flush the gzip trailer, but not close 'dst'.
type Compressor func(dst io.Writer, level int) (io.WriteCloser, error)

// DefaultCompressor is used by new Clients.
//
// It is nil in builds with tag "nogzip", in which case uploads fail with ErrCompressionUnsupported.
var DefaultCompressor Compressor

// Levels as understood by Compressor.
const (
	DefaultCompression = -1
	NoCompression      = 0
	BestSpeed          = 1
	BestCompression    = 9
)

// compressStream transforms 'src' while it is being read from the result.
//
// The compressor runs in its own goroutine, which ends once 'src' is exhausted,
// the result has been closed, or 'ctx' is done. Errors surface on reading the result.
func compressStream(ctx context.Context, src io.Reader, compressor Compressor, level int) io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		zw, err := compressor(pw, level)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		_, err = io.Copy(zw, contextReader{ctx: ctx, r: src})
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err) // nil results in io.EOF
	}()

	return pr
}

// collect drains 'r' into a single payload, and closes it.
func collect(r io.ReadCloser) ([]byte, error) {
	defer r.Close()

	var b bytes.Buffer
	if _, err := b.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "compression failed")
	}
	return b.Bytes(), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

// Read implements the io.Reader interface.
func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
