package schema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStoreFirstObservationWrites(t *testing.T) {
	dir := t.TempDir()
	h := NewHistoryStore(HistoryStoreOptions{Dir: dir})

	s := NewStruct("Account", []Field{{Name: "balance", Schema: NewPrimitive(PrimU64)}})
	require.NoError(t, h.VerifyBackwardCompatible("Adder", 3, s))

	_, err := filepath.Glob(filepath.Join(dir, "savefile_Adder_3.schema"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "savefile_Adder_3.schema"))
}

func TestHistoryStoreSubsequentRunCompatible(t *testing.T) {
	dir := t.TempDir()
	h := NewHistoryStore(HistoryStoreOptions{Dir: dir})

	s := NewStruct("Account", []Field{{Name: "balance", Schema: NewPrimitive(PrimU64)}})
	require.NoError(t, h.VerifyBackwardCompatible("Adder", 3, s))
	require.NoError(t, h.VerifyBackwardCompatible("Adder", 3, s))
}

func TestHistoryStoreDetectsDrift(t *testing.T) {
	dir := t.TempDir()
	h := NewHistoryStore(HistoryStoreOptions{Dir: dir})

	v1 := NewStruct("Account", []Field{{Name: "balance", Schema: NewPrimitive(PrimU32)}})
	require.NoError(t, h.VerifyBackwardCompatible("Adder", 3, v1))

	v2 := NewStruct("Account", []Field{{Name: "balance", Schema: NewPrimitive(PrimU64)}})
	err := h.VerifyBackwardCompatible("Adder", 3, v2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Adder")
}
