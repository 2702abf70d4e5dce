// SPDX-License-Identifier: MIT

package summary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// cacheSchemaVersion must be bumped whenever the msgpack layout of Summary changes.
const cacheSchemaVersion uint16 = 1

// ErrCacheSchema indicates a binary cache written by an incompatible version.
var ErrCacheSchema = errors.New("summary: cache schema mismatch")

type cachePayload struct {
	Schema  uint16
	Summary *Summary
}

// Load reads a Summary from a YAML file. Unknown keys are rejected.
func Load(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("summary: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var s Summary
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("summary: parse %s: %w", path, err)
	}

	return &s, nil
}

// Save writes s as YAML, replacing path atomically.
func (s *Summary) Save(path string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("summary: encode: %w", err)
	}

	return writeAtomic(path, b)
}

// Encode writes s to w as a schema-tagged msgpack payload.
func (s *Summary) Encode(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(cachePayload{Schema: cacheSchemaVersion, Summary: s}); err != nil {
		return fmt.Errorf("summary: msgpack encode: %w", err)
	}

	return nil
}

// Decode reads a payload written by Encode.
func Decode(r io.Reader) (*Summary, error) {
	var p cachePayload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("summary: msgpack decode: %w", err)
	}
	if p.Schema != cacheSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCacheSchema, p.Schema, cacheSchemaVersion)
	}
	if p.Summary == nil {
		return nil, fmt.Errorf("summary: msgpack decode: empty payload")
	}

	return p.Summary, nil
}

// writeAtomic writes b to a temporary file next to path and renames it into place.
func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("summary: write %s: %w", path, err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("summary: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("summary: write %s: %w", path, err)
	}

	return os.Rename(f.Name(), path)
}
