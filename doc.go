// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gzupload contains a client for uploading files
// that are gzip-compressed before they go onto the wire.
//
// One submission results in exactly one request:
//
//  POST <upload url>
//  Content-Type: application/gzip
//  Content-Encoding: gzip
//  X-Filename: <name of the selected file>
//
//  <gzip stream of the file's contents>
//
// The endpoint is expected to answer with a 2xx status and a JSON object
// that carries at least the identifier of the stored file:
//
//  {"id": "abc123"}
//
// The uploaded resource is then found at "/abc123", relative to the site.
//
// This is what a submission amounts to on the Linux shell:
//  gzip --stdout <filename> \
//  | curl --data-binary @- \
//    --header 'Content-Type: application/gzip' \
//    --header 'Content-Encoding: gzip' \
//    --header 'X-Filename: <filename>' \
//    <url>
//
// Progress and outcome are reported to a Display as a Status,
// which mirrors the status line of the upload page.
package gzupload // import "blitznote.com/src/gzupload"
