package savefile

import (
	"bytes"
	"io"

	"github.com/avl/savefile-go/errors"
	"github.com/avl/savefile-go/schema"
	"github.com/avl/savefile-go/wire"
)

// Save writes the 4-byte file-format header, the data version, then
// valueSchema, then the value body encoded as of version (spec's
// save(writer, version, value)).
//
// wire.Writer.WriteHeader/Reader.ReadHeader carry this library's own wire
// framing revision (wire.FileFormatVersion) — a constant bumped only if the
// byte layout of the framing itself ever changes. That is a different
// number from version, the caller's per-value data version that later
// governs which Field/Variant intervals are live; Save writes version as
// its own explicit field immediately after the framing header so Load can
// recover it without assuming the two ever move together.
func Save[T any](w io.Writer, version uint32, value T, valueSchema *schema.Schema, encode func(*wire.Writer, T) error) error {
	ww := wire.NewWriter(w, version)
	if err := ww.WriteHeader(); err != nil {
		return err
	}
	if err := ww.WriteU32(version); err != nil {
		return err
	}
	if err := writeSchemaHeader(ww, valueSchema); err != nil {
		return err
	}
	return encode(ww, value)
}

// SaveNoSchema omits the schema: smaller on the wire, unchecked on load
// (spec's save_noschema).
func SaveNoSchema[T any](w io.Writer, version uint32, value T, encode func(*wire.Writer, T) error) error {
	ww := wire.NewWriter(w, version)
	if err := ww.WriteHeader(); err != nil {
		return err
	}
	if err := ww.WriteU32(version); err != nil {
		return err
	}
	return encode(ww, value)
}

// Load reads the framing header and the data version, rejects a file whose
// data version is newer than callerVersion, reads and verifies the stored
// schema against callerSchema, then decodes the body at the file's own data
// version (spec's load(reader, caller_version)).
func Load[T any](r io.Reader, callerVersion uint32, callerSchema *schema.Schema, decode func(*wire.Reader) (T, error)) (T, error) {
	var zero T
	rr := wire.NewReader(r, callerVersion)
	if _, err := rr.ReadHeader(); err != nil {
		return zero, err
	}
	fileVersion, err := rr.ReadU32()
	if err != nil {
		return zero, err
	}
	if fileVersion > callerVersion {
		return zero, errors.VersionTooNew(fileVersion, callerVersion)
	}

	stored, err := readSchemaHeader(rr)
	if err != nil {
		return zero, err
	}
	if d := schema.Diff(callerSchema, stored, nil, false); d != nil {
		return zero, d
	}

	br := wire.NewReader(r, fileVersion)
	return decode(br)
}

// LoadNoSchema reads the framing header and data version and decodes the
// body directly, skipping schema verification (spec's load_noschema).
func LoadNoSchema[T any](r io.Reader, callerVersion uint32, decode func(*wire.Reader) (T, error)) (T, error) {
	var zero T
	rr := wire.NewReader(r, callerVersion)
	if _, err := rr.ReadHeader(); err != nil {
		return zero, err
	}
	fileVersion, err := rr.ReadU32()
	if err != nil {
		return zero, err
	}
	if fileVersion > callerVersion {
		return zero, errors.VersionTooNew(fileVersion, callerVersion)
	}

	br := wire.NewReader(r, fileVersion)
	return decode(br)
}

// writeSchemaHeader serializes s through schema's own internal wire format
// (with its 1-byte-versioned schema_version header) into a length-prefixed
// block, so Load can read exactly that many bytes before handing the
// stream to decode.
func writeSchemaHeader(w *wire.Writer, s *schema.Schema) error {
	var buf bytes.Buffer
	sw := wire.NewWriter(&buf, w.Version())
	if err := schema.WriteSchemaVersion(sw); err != nil {
		return err
	}
	if err := schema.Encode(sw, s); err != nil {
		return err
	}
	if err := w.WriteLen(buf.Len()); err != nil {
		return err
	}
	return w.WriteRawBytes(buf.Bytes())
}

func readSchemaHeader(r *wire.Reader) (*schema.Schema, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	raw, err := r.ReadRawBytes(n)
	if err != nil {
		return nil, err
	}
	sr := wire.NewReader(bytes.NewReader(raw), r.Version())
	if _, err := schema.ReadSchemaVersion(sr); err != nil {
		return nil, err
	}
	return schema.Decode(sr)
}
