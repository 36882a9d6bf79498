package wire

import (
	"reflect"
	"unsafe"

	"github.com/avl/savefile-go/layout"
)

// packedCalculator is shared process-wide; layout computation is pure and
// read-dominated after warmup, same rationale as the teacher's per-process
// *wit.TypeDef cache.
var packedCalculator = layout.NewCalculator()

// FastPathEligible reports whether a contiguous []T may be written with one
// length prefix followed by a raw byte copy of the backing array, per spec
// §4.1: T's native layout must be a packed, hole-free primitive tuple or
// struct, the host must be little-endian (checked once, process-wide, by
// hostIsLittleEndian), and effectiveVersion must be at or above
// minSafeVersion (the caller's minimum-safe-version for T, computed by
// package version).
func FastPathEligible(t reflect.Type, effectiveVersion, minSafeVersion uint32) bool {
	if !hostIsLittleEndian {
		debugf("fastpath: %s ineligible, host is not little-endian", t)
		return false
	}
	if effectiveVersion < minSafeVersion {
		debugf("fastpath: %s ineligible, effective version %d < minimum safe version %d", t, effectiveVersion, minSafeVersion)
		return false
	}
	info := packedCalculator.Calculate(t)
	if !info.Supported || !info.Packed {
		debugf("fastpath: %s ineligible, native layout not packed/supported", t)
		return false
	}
	return true
}

// hostIsLittleEndian is computed once; Go only ships little-endian and
// big-endian architectures, and the few remaining big-endian targets
// (s390x, mips) must always take the slow, element-wise path.
var hostIsLittleEndian = func() bool {
	var i uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&i))
	return b[0] == 1
}()

// WriteRawSlice writes a length prefix followed by the raw bytes backing a
// contiguous slice of packed elements. Callers must have already verified
// FastPathEligible for the element type.
func (w *Writer) WriteRawSlice(length int, elemSize uint32, data unsafe.Pointer) error {
	if err := w.WriteLen(length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	raw := unsafe.Slice((*byte)(data), uintptr(length)*uintptr(elemSize))
	return w.WriteRawBytes(raw)
}

// ReadRawSlice reads a length-prefixed raw byte run and returns it; the
// caller reinterprets it as []T once it has verified FastPathEligible for T.
func (r *Reader) ReadRawSlice(elemSize uint32) (length int, raw []byte, err error) {
	length, err = r.ReadLen()
	if err != nil {
		return 0, nil, err
	}
	if length == 0 {
		return 0, nil, nil
	}
	raw, err = r.ReadRawBytes(length * int(elemSize))
	return length, raw, err
}
