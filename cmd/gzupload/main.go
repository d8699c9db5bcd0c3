// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gzupload compresses a file and uploads it.
//
// Usage:
//  gzupload [-url <url>] [-level <n>] [-html] [-debug] <file>
//
// The upload URL is compiled in, and can be replaced at build time:
//  go build -ldflags "-X main.uploadURL=https://example.com/upload" ./cmd/gzupload
// Environment variable GZUPLOAD_URL and flag -url take precedence, in this order.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"

	"go.uber.org/zap"

	"blitznote.com/src/gzupload"
)

// Substituted at build time.
var uploadURL = "<<<upload-url>>>"

// Exit codes.
const (
	exitOK = iota
	exitUploadFailed
	exitUsage
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("gzupload", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		urlOverride = flags.String("url", "", "upload endpoint")
		level       = flags.String("level", "", "gzip compression level, -1 (default) through 9")
		asHTML      = flags.Bool("html", false, "print the status as HTML")
		debug       = flags.Bool("debug", false, "log the server response")
	)
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() > 1 {
		fmt.Fprintln(stderr, "only one file can be uploaded at a time")
		return exitUsage
	}

	config, err := gzupload.ConfigurationFromEnv(uploadURL)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	for key, value := range map[string]string{
		gzupload.KeyURL:              *urlOverride,
		gzupload.KeyCompressionLevel: *level,
	} {
		if value == "" {
			continue
		}
		if err := config.Set(key, value); err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	defer logger.Sync()
	config.Logger = logger

	display := gzupload.NewWriterDisplay(stdout)
	display.HTML = *asHTML
	if !*asHTML {
		display.Base, _ = url.Parse(config.UploadURL)
	}

	client, err := gzupload.NewClient(config, display)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	var file *gzupload.SelectedFile
	if flags.NArg() == 1 {
		path := flags.Arg(0)
		if err := restrictFilesystem(path); err != nil {
			logger.Warnw("Cannot restrict access to the filesystem", "error", err)
		}
		file, err = gzupload.OpenFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	}

	_, err = client.Submit(ctx, file)
	switch {
	case err == gzupload.ErrNoFileSelected:
		flags.Usage()
		return exitUsage
	case err != nil:
		return exitUploadFailed
	}
	return exitOK
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
