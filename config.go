// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Settings understood by Configuration.Set.
//
// In the environment their names are upper-case and prefixed by EnvPrefix,
// for example GZUPLOAD_COMPRESSION_LEVEL.
const (
	KeyURL              = "url"
	KeyCompressionLevel = "compression_level"
	KeyCheckFilenames   = "check_filenames"
	KeyFilenamesForm    = "filenames_form"
	KeyFilenamesIn      = "filenames_in"

	EnvPrefix = "GZUPLOAD_"
)

// Left in place by builds in which the upload URL has not been substituted.
const placeholderUploadURL = "<<<upload-url>>>"

// Order matters: filename restrictions imply checking filenames.
var settingKeys = []string{
	KeyURL,
	KeyCompressionLevel,
	KeyCheckFilenames,
	KeyFilenamesForm,
	KeyFilenamesIn,
}

// Configuration of a Client.
//
// Must not be modified once it has been handed to NewClient.
type Configuration struct {
	// Where files are sent to. Absolute, with scheme "http" or "https".
	UploadURL string

	// From DefaultCompression (-1) through BestCompression (9).
	CompressionLevel int

	// If nil, any non-empty name will be sent.
	Filenames *FilenamePolicy

	// Its timeouts are the only ones applied to an upload.
	HTTPClient *http.Client

	// The parsed server response is logged at level "debug".
	Logger *zap.SugaredLogger
}

// NewDefaultConfiguration returns a Configuration for uploads to 'uploadURL'.
func NewDefaultConfiguration(uploadURL string) *Configuration {
	return &Configuration{
		UploadURL:        uploadURL,
		CompressionLevel: DefaultCompression,
		HTTPClient:       http.DefaultClient,
		Logger:           zap.NewNop().Sugar(),
	}
}

// ConfigurationFromEnv starts with NewDefaultConfiguration(fallbackURL)
// and applies any settings found in the environment.
//
// A file ".env" in the working directory is read first, if there is one.
// Variables already present in the environment take precedence over it.
func ConfigurationFromEnv(fallbackURL string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "cannot read .env")
	}

	config := NewDefaultConfiguration(fallbackURL)
	for _, key := range settingKeys {
		value, present := os.LookupEnv(EnvPrefix + strings.ToUpper(key))
		if !present {
			continue
		}
		if err := config.Set(key, value); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// Set changes one setting. 'key' is one of the Key… constants.
//
// The returned error names the key.
func (c *Configuration) Set(key, value string) error {
	switch key {
	case KeyURL:
		c.UploadURL = strings.TrimSpace(value)
	case KeyCompressionLevel:
		l, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrap(err, key)
		}
		if l < DefaultCompression || l > BestCompression {
			return errors.Errorf("%s: must be within -1…9", key)
		}
		c.CompressionLevel = l
	case KeyCheckFilenames:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(err, key)
		}
		switch {
		case !on:
			c.Filenames = nil
		case c.Filenames == nil:
			c.Filenames = &FilenamePolicy{}
		}
	case KeyFilenamesForm:
		var form norm.Form
		switch value {
		case "NFC":
			form = norm.NFC
		case "NFD":
			form = norm.NFD
		case "none":
			if c.Filenames != nil {
				c.Filenames.Form = nil
			}
			return nil
		default:
			return errors.Errorf("%s: must be one of NFC, NFD, none", key)
		}
		c.filenamePolicy().Form = &form
	case KeyFilenamesIn:
		rt, err := ParseRuneRanges(value)
		if err != nil {
			return errors.Wrap(err, key)
		}
		c.filenamePolicy().RestrictTo = []*unicode.RangeTable{rt}
	default:
		return errors.Errorf("unknown setting %q", key)
	}
	return nil
}

func (c *Configuration) filenamePolicy() *FilenamePolicy {
	if c.Filenames == nil {
		c.Filenames = &FilenamePolicy{}
	}
	return c.Filenames
}

// Validate rejects configurations a Client cannot work with.
func (c *Configuration) Validate() error {
	switch c.UploadURL {
	case "", placeholderUploadURL:
		return errors.New("the upload URL has not been configured")
	}
	u, err := url.Parse(c.UploadURL)
	if err != nil {
		return errors.Wrap(err, "invalid upload URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("upload URL %q must be absolute, with scheme http or https", c.UploadURL)
	}

	if c.CompressionLevel < DefaultCompression || c.CompressionLevel > BestCompression {
		return errors.Errorf("compression level %d is not within -1…9", c.CompressionLevel)
	}
	return nil
}
