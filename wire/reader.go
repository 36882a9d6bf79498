package wire

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/avl/savefile-go/errors"
)

// Reader wraps an io.Reader, the data version values are decoded as (the
// one supplied to NewReader), and an ephemeral key/value session map used
// to memoize recursion and dedupe identities within a single read (spec
// §4.1).
type Reader struct {
	r       io.Reader
	version uint32
	session map[any]any
	buf     [8]byte
}

// NewReader creates a Reader that decodes values as of version. ReadHeader
// does not change it; a caller that learns the data version from the stream
// creates a new Reader with that version.
func NewReader(r io.Reader, version uint32) *Reader {
	return &Reader{r: r, version: version, session: make(map[any]any)}
}

// Version returns the version this reader will decode values as.
func (r *Reader) Version() uint32 { return r.version }

// Session returns the per-read ephemeral memoization map.
func (r *Reader) Session() map[any]any { return r.session }

func (r *Reader) readRaw(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, errors.IO(errors.PhaseDecode, "short read", err)
	}
	return buf, nil
}

// ReadHeader reads the 4-byte file-format version header and verifies it is
// not newer than FileFormatVersion; this only guards the outer framing
// version. The data version check happens one level up (savefile.Load and
// savefile.LoadNoSchema).
func (r *Reader) ReadHeader() (uint32, error) {
	b, err := r.readRaw(4)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(b)
	if v > FileFormatVersion {
		debugf("reader: file-format header %d exceeds supported %d", v, FileFormatVersion)
		return 0, errors.VersionTooNew(v, FileFormatVersion)
	}
	return v, nil
}

// ReadCanary reads and verifies the canary constant; mismatch is fatal.
func (r *Reader) ReadCanary() error {
	v, err := r.ReadU32()
	if err != nil {
		return err
	}
	if v != Canary {
		debugf("reader: canary mismatch, got %#x want %#x", v, Canary)
		return errors.MalformedData(errors.PhaseDecode, nil, "canary mismatch: data stream is corrupt or misaligned")
	}
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readRaw(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.MalformedData(errors.PhaseDecode, nil, "invalid bool byte")
	}
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.readRaw(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.readRaw(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.readRaw(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.readRaw(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadUsize reads a fixed 8-byte unsigned value regardless of host word size.
func (r *Reader) ReadUsize() (uint64, error) { return r.ReadU64() }

// ReadIsize reads a fixed 8-byte signed value regardless of host word size.
func (r *Reader) ReadIsize() (int64, error) { return r.ReadI64() }

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadString reads a byte length followed by UTF-8 bytes and validates the
// encoding.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU64()
	if err != nil {
		return "", err
	}
	b, err := r.readRaw(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.MalformedData(errors.PhaseDecode, nil, "invalid UTF-8 in string")
	}
	return string(b), nil
}

// ReadLen reads the 8-byte length prefix used by sequences, maps and sets.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, errors.MalformedData(errors.PhaseDecode, nil, "impossible container length")
	}
	return int(n), nil
}

// ReadOptionalFlag reads the 1-byte presence flag of an Optional T.
func (r *Reader) ReadOptionalFlag() (bool, error) {
	return r.ReadBool()
}

// ReadDiscriminant reads an enum discriminant of the given fixed byte width.
func (r *Reader) ReadDiscriminant(width int) (uint32, error) {
	switch width {
	case 1:
		v, err := r.ReadU8()
		return uint32(v), err
	case 2:
		v, err := r.ReadU16()
		return uint32(v), err
	case 4:
		return r.ReadU32()
	default:
		return 0, errors.MalformedData(errors.PhaseDecode, nil, "unsupported discriminant width")
	}
}

// ReadRawBytes reads n raw bytes verbatim, used by the packed raw-copy fast
// path's reverse direction (spec §4.1).
func (r *Reader) ReadRawBytes(n int) ([]byte, error) {
	return r.readRaw(n)
}
