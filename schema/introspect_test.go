package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type introspectAccount struct {
	Balance  uint64
	Nickname *string
}

func TestIntrospectStruct(t *testing.T) {
	nick := "steve"
	s := NewStruct("Account", []Field{
		{Name: "Balance", Schema: NewPrimitive(PrimU64)},
		{Name: "Nickname", Schema: NewOptional(NewPrimitive(PrimString))},
	})

	v := introspectAccount{Balance: 42, Nickname: &nick}
	out := Introspect(s, reflect.ValueOf(v))
	assert.Contains(t, out, "Account {")
	assert.Contains(t, out, "Balance: 42")
	assert.Contains(t, out, "Nickname:")
}

func TestIntrospectSequence(t *testing.T) {
	s := NewSequence(NewPrimitive(PrimU32))
	out := Introspect(s, reflect.ValueOf([]uint32{1, 2, 3}))
	assert.Equal(t, "[1 (u32), 2 (u32), 3 (u32)]", out)
}

func TestIntrospectRecursionMarker(t *testing.T) {
	s := NewRecursionMarker(1)
	out := Introspect(s, reflect.Value{})
	assert.Contains(t, out, "recurse 1 levels up")
}
