// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DryRunWriter records the files a run would produce instead of writing
// them. Flush prints the collected plan to the underlying writer.
type DryRunWriter struct {
	mu    sync.Mutex
	out   io.Writer
	root  string
	files []plannedFile
	t0    time.Time
}

type plannedFile struct {
	name string
	size int
}

func NewDryRunWriter(out io.Writer, root string) *DryRunWriter {
	return &DryRunWriter{out: out, root: root, t0: time.Now()}
}

// Write records the planned file. A nil blob marks a file whose content is
// not produced during a dry run.
func (d *DryRunWriter) Write(name string, blob []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files = append(d.files, plannedFile{name: name, size: len(blob)})
	return filepath.Join(d.root, name), nil
}

// Flush writes the sorted plan and the elapsed time.
func (d *DryRunWriter) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sort.Slice(d.files, func(i, j int) bool { return d.files[i].name < d.files[j].name })

	var b strings.Builder
	fmt.Fprintf(&b, "would write under %s:\n", d.root)
	for _, f := range d.files {
		if f.size > 0 {
			fmt.Fprintf(&b, "  %s (%d bytes)\n", f.name, f.size)
		} else {
			fmt.Fprintf(&b, "  %s\n", f.name)
		}
	}
	fmt.Fprintf(&b, "\nDry run finished in %f seconds\n", time.Since(d.t0).Seconds())

	_, err := io.WriteString(d.out, b.String())
	return err
}
