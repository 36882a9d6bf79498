package abi

import (
	"bytes"

	"github.com/avl/savefile-go/wire"
)

// EncodeResult serializes a RegularCall return value in the shape spec
// §4.4 requires: "bytes contain effective_version || serialized return
// value." Used by a callee's Dispatch implementation to build
// RawAbiCallResult.Data.
func EncodeResult[T any](effectiveVersion uint32, value T, encode func(*wire.Writer, T) error) ([]byte, error) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, effectiveVersion)
	if err := w.WriteU32(effectiveVersion); err != nil {
		return nil, err
	}
	if err := encode(w, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeResult reverses EncodeResult: it reads the leading effective
// version and then the return value with decode.
func DecodeResult[T any](data []byte, decode func(*wire.Reader) (T, error)) (effectiveVersion uint32, value T, err error) {
	r := wire.NewReader(bytes.NewReader(data), 0)
	effectiveVersion, err = r.ReadU32()
	if err != nil {
		return 0, value, err
	}
	value, err = decode(r)
	return effectiveVersion, value, err
}
