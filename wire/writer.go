package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/avl/savefile-go/errors"
)

// FileFormatVersion is the wire version of the framing (4-byte header),
// distinct from a user type's schema_version or any per-value version.
const FileFormatVersion = 1

// Canary is the literal 32-bit spot-check constant from spec §3.
const Canary uint32 = 0x47566843

// Writer wraps an io.Writer and the active output version. All typed write
// operations encode little-endian, fixed-width values as specified in §3.
type Writer struct {
	w       io.Writer
	version uint32
	buf     [8]byte
}

// NewWriter creates a Writer bound to an output version. The version is the
// value the caller intends to serialize data *as* (spec's "effective
// version" once used from the ABI connector).
func NewWriter(w io.Writer, version uint32) *Writer {
	return &Writer{w: w, version: version}
}

// Version returns the writer's active output version.
func (w *Writer) Version() uint32 { return w.version }

func (w *Writer) writeRaw(b []byte) error {
	if _, err := w.w.Write(b); err != nil {
		return errors.IO(errors.PhaseEncode, "short write", err)
	}
	return nil
}

// WriteHeader writes the 4-byte file-format version header.
func (w *Writer) WriteHeader() error {
	binary.LittleEndian.PutUint32(w.buf[:4], FileFormatVersion)
	return w.writeRaw(w.buf[:4])
}

// WriteCanary writes the canary spot-check constant.
func (w *Writer) WriteCanary() error {
	return w.WriteU32(Canary)
}

// WriteBool writes a bool as one byte, 0 or 1.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.writeRaw([]byte{1})
	}
	return w.writeRaw([]byte{0})
}

func (w *Writer) WriteU8(v uint8) error  { return w.writeRaw([]byte{v}) }
func (w *Writer) WriteI8(v int8) error   { return w.writeRaw([]byte{byte(v)}) }

func (w *Writer) WriteU16(v uint16) error {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	return w.writeRaw(w.buf[:2])
}

func (w *Writer) WriteI16(v int16) error { return w.WriteU16(uint16(v)) }

func (w *Writer) WriteU32(v uint32) error {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	return w.writeRaw(w.buf[:4])
}

func (w *Writer) WriteI32(v int32) error { return w.WriteU32(uint32(v)) }

func (w *Writer) WriteU64(v uint64) error {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	return w.writeRaw(w.buf[:8])
}

func (w *Writer) WriteI64(v int64) error { return w.WriteU64(uint64(v)) }

// WriteUsize writes a host usize as a fixed 8-byte unsigned value; host word
// size must never leak onto the wire (spec §3 invariant).
func (w *Writer) WriteUsize(v uint64) error { return w.WriteU64(v) }

// WriteIsize writes a host isize as a fixed 8-byte signed value.
func (w *Writer) WriteIsize(v int64) error { return w.WriteI64(v) }

func (w *Writer) WriteF32(v float32) error {
	return w.WriteU32(math.Float32bits(v))
}

func (w *Writer) WriteF64(v float64) error {
	return w.WriteU64(math.Float64bits(v))
}

// WriteString writes a byte length followed by UTF-8 bytes, no terminator.
func (w *Writer) WriteString(s string) error {
	if err := w.WriteU64(uint64(len(s))); err != nil {
		return err
	}
	return w.writeRaw([]byte(s))
}

// WriteLen writes an 8-byte length prefix used by sequences, maps, and sets.
func (w *Writer) WriteLen(n int) error {
	return w.WriteU64(uint64(n))
}

// WriteOptionalFlag writes the 1-byte presence flag of an Optional T.
func (w *Writer) WriteOptionalFlag(present bool) error {
	return w.WriteBool(present)
}

// WriteDiscriminant writes an enum discriminant in the given fixed byte
// width (1, 2 or 4), per spec §3.
func (w *Writer) WriteDiscriminant(width int, value uint32) error {
	switch width {
	case 1:
		if value > math.MaxUint8 {
			return errors.ArityExceeded(errors.PhaseEncode, "discriminant value exceeds 1-byte width")
		}
		return w.WriteU8(uint8(value))
	case 2:
		if value > math.MaxUint16 {
			return errors.ArityExceeded(errors.PhaseEncode, "discriminant value exceeds 2-byte width")
		}
		return w.WriteU16(uint16(value))
	case 4:
		return w.WriteU32(value)
	default:
		return errors.MalformedData(errors.PhaseEncode, nil, "unsupported discriminant width")
	}
}

// WriteRawBytes writes bytes verbatim, used by the packed raw-copy fast
// path (spec §4.1) once a caller has established eligibility.
func (w *Writer) WriteRawBytes(b []byte) error {
	return w.writeRaw(b)
}
