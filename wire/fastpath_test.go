package wire

import (
	"bytes"
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point2D struct {
	X, Y float32
}

// TestRawByteFastPath is scenario 6 from spec §8: a []point2D of length
// 200_000 saved where both sides use identical packed layout; the on-wire
// byte count must be exactly 8 + 200_000*8.
func TestRawByteFastPath(t *testing.T) {
	const n = 200_000
	pts := make([]point2D, n)
	for i := range pts {
		pts[i] = point2D{X: float32(i), Y: float32(-i)}
	}

	elemType := reflect.TypeOf(point2D{})
	require.True(t, FastPathEligible(elemType, 1, 0))

	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	require.NoError(t, w.WriteRawSlice(len(pts), uint32(unsafe.Sizeof(point2D{})), unsafe.Pointer(&pts[0])))

	assert.Equal(t, 8+n*8, buf.Len())

	r := NewReader(&buf, 1)
	length, raw, err := r.ReadRawSlice(uint32(unsafe.Sizeof(point2D{})))
	require.NoError(t, err)
	require.Equal(t, n, length)

	out := unsafe.Slice((*point2D)(unsafe.Pointer(&raw[0])), length)
	assert.Equal(t, pts[0], out[0])
	assert.Equal(t, pts[n-1], out[n-1])
}

func TestFastPathIneligibleBelowMinSafeVersion(t *testing.T) {
	elemType := reflect.TypeOf(point2D{})
	assert.False(t, FastPathEligible(elemType, 0, 1))
}

type hasSliceField struct {
	Items []int
}

func TestFastPathIneligibleForUnsupportedKinds(t *testing.T) {
	assert.False(t, FastPathEligible(reflect.TypeOf(hasSliceField{}), 1, 0))
	assert.False(t, FastPathEligible(reflect.TypeOf(""), 1, 0))
}
