package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avl/savefile-go/errors"
	"github.com/avl/savefile-go/wire"
)

// HistoryStoreOptions configures a HistoryStore (spec §6's "source
// controlled artifacts" directory).
type HistoryStoreOptions struct {
	// Dir is the directory historical schema files live in. Defaults to
	// the current directory if empty.
	Dir string
}

// HistoryStore implements spec §4.2's verify_backward_compatible: it
// stores each historical schema in a per-(trait,version) file on disk the
// first time that version is observed, and on subsequent runs compares the
// current computation against the stored one.
type HistoryStore struct {
	dir string
}

func NewHistoryStore(opts HistoryStoreOptions) *HistoryStore {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return &HistoryStore{dir: dir}
}

// path returns <dir>/savefile_<trait_name>_<version>.schema, per spec §6.
func (h *HistoryStore) path(traitName string, version uint32) string {
	return filepath.Join(h.dir, fmt.Sprintf("savefile_%s_%d.schema", traitName, version))
}

// VerifyBackwardCompatible compares current against the stored historical
// schema for (traitName, version). On first observation it writes current
// to disk and returns nil. On subsequent runs, any drift produces a clear,
// path-qualified SchemaMismatch error.
func (h *HistoryStore) VerifyBackwardCompatible(traitName string, version uint32, current *Schema) error {
	p := h.path(traitName, version)

	stored, err := h.load(p)
	if err != nil {
		if os.IsNotExist(err) {
			debugf("history: no stored schema for %s at version %d, recording baseline", traitName, version)
			return h.store(p, current)
		}
		return errors.IO(errors.PhaseSchema, "reading historical schema file "+p, err)
	}

	if d := Diff(current, stored, []string{traitName}, false); d != nil {
		debugf("history: %s at version %d drifted from its stored schema: %v", traitName, version, d)
		return d
	}
	return nil
}

func (h *HistoryStore) load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := wire.NewReader(bytes.NewReader(data), uint32(WireVersion))
	if _, err := ReadSchemaVersion(r); err != nil {
		return nil, err
	}
	return Decode(r)
}

func (h *HistoryStore) store(path string, s *Schema) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return errors.IO(errors.PhaseSchema, "creating historical schema directory "+h.dir, err)
	}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, uint32(WireVersion))
	if err := WriteSchemaVersion(w); err != nil {
		return err
	}
	if err := Encode(w, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.IO(errors.PhaseSchema, "writing historical schema file "+path, err)
	}
	return nil
}
