// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key name and the trimmed contents are the value.
//
// Recognised files: elsevier-api-key, crossref-mailto.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Key file names.
const (
	ElsevierAPIKey = "elsevier-api-key"
	CrossrefMailto = "crossref-mailto"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Lookup returns the value for name, falling back to the environment
// variable env when the file is absent.
func (s Secrets) Lookup(name, env string) string {
	if v := s[name]; v != "" {
		return v
	}
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}

// Load reads all files in dir. A missing directory is not an error and
// yields an empty map. Unreadable files are logged and skipped. A nil
// logger discards warnings.
func Load(dir string, log logrus.FieldLogger) (Secrets, error) {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithField("secret", name).WithError(err).Warn("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}
