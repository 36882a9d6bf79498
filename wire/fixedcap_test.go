package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeI32(w *Writer, v int32) error { return w.WriteI32(v) }
func decodeI32(r *Reader) (int32, error) { return r.ReadI32() }

func TestFixedCapacitySliceRoundTrip(t *testing.T) {
	f := NewFixedCapacitySlice[int32](4)
	require.NoError(t, f.Push(1))
	require.NoError(t, f.Push(2))
	require.NoError(t, f.Push(3))

	var buf bytes.Buffer
	require.NoError(t, EncodeFixedCapacitySlice(NewWriter(&buf, 0), f, encodeI32))

	got, err := DecodeFixedCapacitySlice(NewReader(&buf, 0), 4, decodeI32)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, got.Items)
	assert.Equal(t, 4, got.Capacity)
}

func TestFixedCapacitySlicePushBeyondCapacityFails(t *testing.T) {
	f := NewFixedCapacitySlice[int32](2)
	require.NoError(t, f.Push(1))
	require.NoError(t, f.Push(2))
	err := f.Push(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arity_exceeded")
}

func TestFixedCapacitySliceEmptyRoundTrip(t *testing.T) {
	f := NewFixedCapacitySlice[string](1)
	var buf bytes.Buffer
	require.NoError(t, EncodeFixedCapacitySlice(NewWriter(&buf, 0), f, (*Writer).WriteString))

	got, err := DecodeFixedCapacitySlice(NewReader(&buf, 0), 1, (*Reader).ReadString)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestDecodeFixedCapacitySliceRejectsOverCapacity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	require.NoError(t, w.WriteLen(3))
	for i := 0; i < 3; i++ {
		require.NoError(t, w.WriteI32(int32(i)))
	}

	_, err := DecodeFixedCapacitySlice(NewReader(&buf, 0), 2, decodeI32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arity_exceeded")
}
