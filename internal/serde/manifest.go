package serde

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"irstore/internal/ast"
	"irstore/internal/schema"
)

// ManifestName is the file name of the save manifest.
const ManifestName = "manifest.mp"

// manifestSchemaVersion is bumped whenever the artifact layout rules change.
const manifestSchemaVersion uint16 = 1

// Manifest describes one save. It is advisory: a directory without one still
// loads, only without the layout check.
type Manifest struct {
	Schema    uint16         `msgpack:"schema"`
	Tool      string         `msgpack:"tool"`
	SavedAt   time.Time      `msgpack:"saved_at"`
	ByteOrder string         `msgpack:"byte_order"`
	Index     string         `msgpack:"index"`
	Kinds     []ManifestKind `msgpack:"kinds"`
}

// ManifestKind records one artifact: its node count and field signature.
type ManifestKind struct {
	Class  ast.ClassID `msgpack:"class"`
	Name   string      `msgpack:"name"`
	Count  int         `msgpack:"count"`
	Fields []string    `msgpack:"fields"`
}

// Kind returns the entry for class, if present.
func (m *Manifest) Kind(class ast.ClassID) (ManifestKind, bool) {
	for _, k := range m.Kinds {
		if k.Class == class {
			return k, true
		}
	}
	return ManifestKind{}, false
}

// Check compares the recorded signatures with reg. Kinds that exist on only
// one side are reported as well.
func (m *Manifest) Check(reg *schema.Registry) error {
	if m.Schema != manifestSchemaVersion {
		return fmt.Errorf("%w: manifest schema %d, expected %d", ErrLayoutMismatch, m.Schema, manifestSchemaVersion)
	}
	var errs []error
	for _, d := range reg.Ordered() {
		k, ok := m.Kind(d.Class)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s not in manifest", ErrLayoutMismatch, d.Name))
			continue
		}
		if k.Name != d.Name {
			errs = append(errs, fmt.Errorf("%w: class %d saved as %s, registered as %s", ErrLayoutMismatch, d.Class, k.Name, d.Name))
		}
		if want := d.Signature(); !slices.Equal(k.Fields, want) {
			errs = append(errs, fmt.Errorf("%w: %s fields %v, registered %v", ErrLayoutMismatch, d.Name, k.Fields, want))
		}
	}
	for _, k := range m.Kinds {
		if _, err := reg.Lookup(k.Class); err != nil {
			errs = append(errs, fmt.Errorf("%w: manifest kind %s: %w", ErrLayoutMismatch, k.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ReadManifest loads dir's manifest. ok is false when there is none.
func ReadManifest(dir string) (m *Manifest, ok bool, err error) {
	f, err := os.Open(filepath.Join(dir, ManifestName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	m = new(Manifest)
	if err := msgpack.NewDecoder(f).Decode(m); err != nil {
		return nil, false, fmt.Errorf("manifest: %w", err)
	}
	return m, true, nil
}

func writeManifest(dir string, m *Manifest) error {
	return writeAtomic(filepath.Join(dir, ManifestName), func(f *os.File) error {
		return msgpack.NewEncoder(f).Encode(m)
	})
}
