// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// FSWriter writes documents into a flat output directory. Output names are
// content-addressed, so an existing file is the finished work of an earlier
// identical request: the first finisher wins and later writes keep it.
type FSWriter struct {
	Root string
}

func (f *FSWriter) Write(name string, blob []byte) (string, error) {
	if err := os.MkdirAll(f.Root, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(f.Root, name)
	if _, err := os.Stat(path); err == nil {
		klog.V(2).Infof("output %s exists, keeping it", path)
		return path, nil
	}

	// Stage to a temp file and rename so readers never observe a
	// half-written document.
	tmp, err := os.CreateTemp(f.Root, ".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err = tmp.Write(blob); err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	klog.V(2).Infof("wrote %s (%d bytes)", path, len(blob))
	return path, nil
}
