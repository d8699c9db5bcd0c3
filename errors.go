// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"strconv"
)

// Errors returned by Client.Submit before any request has been issued.
const (
	ErrNoFileSelected         clientError = "Please select a file first."
	ErrCompressionUnsupported clientError = "CompressionStream is not supported in this browser."
)

type clientError string

// Error implements the error interface.
func (e clientError) Error() string { return string(e) }

// HTTPError is returned if the upload endpoint responded with a status other than 2xx.
type HTTPError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return "HTTP error, status: " + strconv.Itoa(e.StatusCode)
}

// ParseError is returned if the response body is not a JSON object with an 'id'.
type ParseError struct {
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "cannot parse server response: " + e.Err.Error()
}

// Cause is used by github.com/pkg/errors.
func (e *ParseError) Cause() error { return e.Err }

// Unwrap is used by package errors.
func (e *ParseError) Unwrap() error { return e.Err }

// FilenameError is returned if the name of the selected file cannot be sent.
type FilenameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *FilenameError) Error() string {
	if e.Reason == "" {
		return "unacceptable filename " + strconv.Quote(e.Name)
	}
	return "unacceptable filename " + strconv.Quote(e.Name) + ": " + e.Reason
}
