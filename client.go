// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Limits how much of a response body is read.
const maxResponseSize = 1 << 20

var (
	errNotAnObject = errors.New("expected a JSON object")
	errMissingID   = errors.New("no 'id' in response")
	errEmptyID     = errors.New("empty 'id' in response")
)

// UploadResult is what the endpoint returned for a stored file.
type UploadResult struct {
	// Identifies the file on the server, which makes it available at "/<ID>".
	ID string

	// Any other members of the response object, undecoded.
	Extra map[string]json.RawMessage
}

// Client compresses selected files and sends them to one endpoint.
//
// A Client can be used for any number of overlapping submissions,
// which are independent of each other except for sharing the Display.
type Client struct {
	config     Configuration
	compressor Compressor
	display    Display
}

// NewClient returns a Client for the given configuration,
// which reports to 'display'. 'display' is optional.
func NewClient(config *Configuration, display Display) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := Client{
		config:     *config,
		compressor: DefaultCompressor,
		display:    display,
	}
	if c.config.HTTPClient == nil {
		c.config.HTTPClient = http.DefaultClient
	}
	if c.config.Logger == nil {
		c.config.Logger = zap.NewNop().Sugar()
	}
	if c.display == nil {
		c.display = discardDisplay{}
	}
	return &c, nil
}

// Submit uploads 'file', which is nil if none has been selected.
//
// The Display receives a Status before and after the upload. Every error
// ends up there as a human-readable line, and is returned as well.
// No request is made if 'file' is nil, or it cannot be compressed.
func (c *Client) Submit(ctx context.Context, file *SelectedFile) (*UploadResult, error) {
	if file == nil {
		c.display.Show(idleStatus(ErrNoFileSelected.Error()))
		return nil, ErrNoFileSelected
	}

	c.display.Show(busyStatus())

	result, err := c.upload(ctx, file)
	if err != nil {
		c.display.Show(failedStatus(err))
		return nil, err
	}

	c.display.Show(uploadedStatus(result.ID))
	return result, nil
}

func (c *Client) upload(ctx context.Context, file *SelectedFile) (*UploadResult, error) {
	if c.compressor == nil {
		return nil, ErrCompressionUnsupported
	}
	if err := c.config.Filenames.Check(file.Name()); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read the selected file")
	}
	payload, err := collect(compressStream(ctx, src, c.compressor, c.config.CompressionLevel))
	src.Close()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.UploadURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/gzip")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("X-Filename", file.Name())

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize)) // enables reuse of the connection
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read server response")
	}
	result, err := parseUploadResult(body)
	if err != nil {
		return nil, err
	}

	c.config.Logger.Debugw("Server response",
		"file", file.Name(),
		"size", file.Size(),
		"compressed", len(payload),
		"id", result.ID,
		"response", json.RawMessage(body),
	)
	return result, nil
}

// parseUploadResult expects a JSON object with at least member 'id'.
//
// Numeric IDs are accepted in their textual representation.
func parseUploadResult(body []byte) (*UploadResult, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, &ParseError{Err: err}
	}
	if members == nil { // body is "null"
		return nil, &ParseError{Err: errNotAnObject}
	}

	rawID, found := members["id"]
	if !found {
		return nil, &ParseError{Err: errMissingID}
	}

	var id string
	if err := json.Unmarshal(rawID, &id); err != nil {
		var n json.Number
		if json.Unmarshal(rawID, &n) != nil {
			return nil, &ParseError{Err: errors.Wrap(err, "member 'id'")}
		}
		id = n.String()
	}
	if id == "" {
		return nil, &ParseError{Err: errEmptyID}
	}

	delete(members, "id")
	return &UploadResult{ID: id, Extra: members}, nil
}
