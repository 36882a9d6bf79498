package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrimitiveRoundTrip exercises scenario 1 from spec §8: the tuple
// (u8=7, u32=1_000_000, String="hello") at version 0.
func TestPrimitiveRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)

	require.NoError(t, w.WriteU8(7))
	require.NoError(t, w.WriteU32(1_000_000))
	require.NoError(t, w.WriteString("hello"))

	want := []byte{
		0x07,
		0x40, 0x42, 0x0F, 0x00,
		0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		'h', 'e', 'l', 'l', 'o',
	}
	assert.Equal(t, want, buf.Bytes())

	r := NewReader(&buf, 0)
	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.EqualValues(t, 7, u8)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, u32)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf, 0).WriteBool(v))
		got, err := NewReader(&buf, 0).ReadBool()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestBoolInvalidByte(t *testing.T) {
	buf := bytes.NewBuffer([]byte{42})
	_, err := NewReader(buf, 0).ReadBool()
	assert.Error(t, err)
}

func TestFloatRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	require.NoError(t, w.WriteF32(3.5))
	require.NoError(t, w.WriteF64(-2.25))

	r := NewReader(&buf, 0)
	f32, err := r.ReadF32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := r.ReadF64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)
}

func TestUsizeIsizeAreFixedEightBytes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	require.NoError(t, w.WriteUsize(1))
	assert.Equal(t, 8, buf.Len())
	require.NoError(t, w.WriteIsize(-1))
	assert.Equal(t, 16, buf.Len())
}

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, 0).WriteHeader())
	v, err := NewReader(&buf, 0).ReadHeader()
	require.NoError(t, err)
	assert.EqualValues(t, FileFormatVersion, v)
}

func TestHeaderVersionTooNew(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	require.NoError(t, w.WriteU32(FileFormatVersion+1))
	_, err := NewReader(&buf, 0).ReadHeader()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version_too_new")
}

func TestCanaryMismatchIsFatal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, 0).WriteU32(0xDEADBEEF))
	err := NewReader(&buf, 0).ReadCanary()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canary")
}

func TestCanaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, 0).WriteCanary())
	assert.NoError(t, NewReader(&buf, 0).ReadCanary())
}

func TestStringInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	require.NoError(t, w.WriteLen(2))
	require.NoError(t, w.WriteRawBytes([]byte{0xff, 0xfe}))
	_, err := NewReader(&buf, 0).ReadString()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestDiscriminantWidths(t *testing.T) {
	for _, width := range []int{1, 2, 4} {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf, 0).WriteDiscriminant(width, 3))
		v, err := NewReader(&buf, 0).ReadDiscriminant(width)
		require.NoError(t, err)
		assert.EqualValues(t, 3, v)
	}
}

func TestDiscriminantOverflowsOneByteWidth(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf, 0).WriteDiscriminant(1, 300)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arity_exceeded")
}

func TestOptionalFlagRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	require.NoError(t, w.WriteOptionalFlag(true))
	require.NoError(t, w.WriteU32(42))

	r := NewReader(&buf, 0)
	present, err := r.ReadOptionalFlag()
	require.NoError(t, err)
	require.True(t, present)
	v, err := r.ReadU32()
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)
}

func TestSequenceOfStrings(t *testing.T) {
	items := []string{"a", "bb", "ccc"}
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	require.NoError(t, w.WriteLen(len(items)))
	for _, s := range items {
		require.NoError(t, w.WriteString(s))
	}

	r := NewReader(&buf, 0)
	n, err := r.ReadLen()
	require.NoError(t, err)
	require.Equal(t, len(items), n)
	got := make([]string, n)
	for i := range got {
		got[i], err = r.ReadString()
		require.NoError(t, err)
	}
	assert.Equal(t, items, got)
}
