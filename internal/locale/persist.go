// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"os"
	"path/filepath"
	"strings"
)

// FilePersister stores the language preference in a small file under the
// data directory, mirroring the durable client storage of the original site.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// SaveLanguage writes lang to the backing file.
func (p *FilePersister) SaveLanguage(lang string) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, []byte(lang+"\n"), 0o644)
}

// LoadLanguage reads the persisted language.
func (p *FilePersister) LoadLanguage() (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
