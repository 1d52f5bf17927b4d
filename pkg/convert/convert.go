// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package convert renders the assembled HTML into extra output formats by
// delegating to external converter commands.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
)

// Format is one deliverable document format.
type Format string

const (
	HTML Format = "html"
	PDF  Format = "pdf"
	EPUB Format = "epub"
	DOCX Format = "docx"
)

// Converter renders one HTML file into another format.
type Converter interface {
	Format() Format
	Convert(ctx context.Context, htmlPath, outPath string) error
}

// execConverter shells out to an installed converter command. The command
// writes to a dotted temp path that is renamed into place on success, so a
// failed conversion never leaves a partial output file behind.
type execConverter struct {
	format  Format
	command string
	args    func(in, out string) []string
}

var converters = map[Format]*execConverter{
	PDF: {
		format:  PDF,
		command: "wkhtmltopdf",
		args: func(in, out string) []string {
			return []string{"--enable-local-file-access", "--quiet", in, out}
		},
	},
	EPUB: {
		format:  EPUB,
		command: "pandoc",
		args: func(in, out string) []string {
			return []string{"-f", "html", "-t", "epub", "-o", out, in}
		},
	},
	DOCX: {
		format:  DOCX,
		command: "pandoc",
		args: func(in, out string) []string {
			return []string{"-f", "html", "-t", "docx", "-o", out, in}
		},
	},
}

// For returns the converter handling one format. HTML needs no converter.
func For(f Format) (Converter, bool) {
	c, ok := converters[f]
	return c, ok
}

// ParseFormats validates requested output format names. HTML is always
// produced and therefore not returned; duplicates collapse.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if f == "" || f == HTML || seen[f] {
			continue
		}
		if _, ok := converters[f]; !ok {
			return nil, fmt.Errorf("unknown output format %q", n)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func (c *execConverter) Format() Format {
	return c.format
}

func (c *execConverter) Convert(ctx context.Context, htmlPath, outPath string) error {
	tmp := filepath.Join(filepath.Dir(outPath), "."+filepath.Base(outPath)+".tmp")
	cmd := exec.CommandContext(ctx, c.command, c.args(htmlPath, tmp)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	klog.V(6).Infof("converting %s: %s", c.format, cmd.String())
	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return &docerr.ConverterError{
			Format: string(c.format),
			Err:    fmt.Errorf("%s: %v%s", c.command, err, stderrNote(stderr.String())),
		}
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return &docerr.ConverterError{Format: string(c.format), Err: err}
	}
	return nil
}

// stderrNote keeps the first stderr line for the error message; converter
// output can run to pages.
func stderrNote(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return ": " + s
}
