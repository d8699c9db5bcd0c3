// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"fmt"
	"html"
	"io"
	"net/url"
	"sync"
)

// StatusKind tells what a Status is about.
type StatusKind uint8

// Kinds of Status.
const (
	StatusIdle StatusKind = iota
	StatusBusy
	StatusSuccess
	StatusError
)

const (
	msgBusy        = "Compressing and uploading file..."
	msgUploaded    = "File uploaded successfully: "
	msgUploadError = "Upload failed: "
)

// Link points to an uploaded file. Href is relative to the site's root.
type Link struct {
	Href  string
	Label string
}

// Status is the line shown to the user.
//
// If Link is set it follows Text.
type Status struct {
	Kind StatusKind
	Text string
	Link *Link
}

func idleStatus(text string) Status {
	return Status{Kind: StatusIdle, Text: text}
}

func busyStatus() Status {
	return Status{Kind: StatusBusy, Text: msgBusy}
}

func uploadedStatus(id string) Status {
	return Status{
		Kind: StatusSuccess,
		Text: msgUploaded,
		Link: &Link{Href: "/" + url.PathEscape(id), Label: id},
	}
}

func failedStatus(err error) Status {
	return Status{Kind: StatusError, Text: msgUploadError + err.Error()}
}

// String renders the status as plain text, with any link as "label (href)".
func (s Status) String() string {
	if s.Link == nil {
		return s.Text
	}
	return s.Text + s.Link.Label + " (" + s.Link.Href + ")"
}

// HTML renders the status as markup, for example:
//  <span>File uploaded successfully: <a href="/abc123">abc123</a></span>
func (s Status) HTML() string {
	if s.Link == nil {
		return html.EscapeString(s.Text)
	}
	return fmt.Sprintf(`<span>%s<a href="%s">%s</a></span>`,
		html.EscapeString(s.Text), html.EscapeString(s.Link.Href), html.EscapeString(s.Link.Label))
}

// ResolveAgainst returns a copy with the link, if any, made absolute using 'base'.
func (s Status) ResolveAgainst(base *url.URL) Status {
	if s.Link == nil || base == nil {
		return s
	}
	ref, err := url.Parse(s.Link.Href)
	if err != nil {
		return s
	}
	s.Link = &Link{Href: base.ResolveReference(ref).String(), Label: s.Link.Label}
	return s
}

// Display is where a Client reports what it does.
//
// Implementations must be safe for concurrent use:
// overlapping submissions share a Display, and the last Status shown wins.
type Display interface {
	Show(Status)
}

type discardDisplay struct{}

// Show implements the Display interface.
func (discardDisplay) Show(Status) {}

// WriterDisplay writes one line per Status.
type WriterDisplay struct {
	// If set, links are printed as absolute URLs.
	Base *url.URL

	// Print markup instead of plain text.
	HTML bool

	mu sync.Mutex
	w  io.Writer
}

// NewWriterDisplay returns a Display that prints to 'w', for example os.Stdout.
func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

// Show implements the Display interface.
func (d *WriterDisplay) Show(s Status) {
	s = s.ResolveAgainst(d.Base)
	line := s.String()
	if d.HTML {
		line = s.HTML()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.w, line)
}

// RecordingDisplay keeps every Status it has been shown.
type RecordingDisplay struct {
	mu      sync.Mutex
	history []Status
}

// Show implements the Display interface.
func (d *RecordingDisplay) Show(s Status) {
	d.mu.Lock()
	d.history = append(d.history, s)
	d.mu.Unlock()
}

// Last is what is currently being displayed. The zero Status if nothing has been shown.
func (d *RecordingDisplay) Last() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.history) == 0 {
		return Status{}
	}
	return d.history[len(d.history)-1]
}

// History returns a copy of all Status in the order they had been shown.
func (d *RecordingDisplay) History() []Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Status(nil), d.history...)
}
