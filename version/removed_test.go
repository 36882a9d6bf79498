package version

import (
	"bytes"
	"testing"

	"github.com/avl/savefile-go/wire"
)

func TestDecodeRemovedDiscardsAndAdvances(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, 0)
	if err := w.WriteString("obsolete"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU32(7); err != nil {
		t.Fatal(err)
	}

	r := wire.NewReader(&buf, 0)
	if _, err := DecodeRemoved[string](r, (*wire.Reader).ReadString); err != nil {
		t.Fatalf("DecodeRemoved: %v", err)
	}
	next, err := r.ReadU32()
	if err != nil {
		t.Fatal(err)
	}
	if next != 7 {
		t.Errorf("got %d, want 7 (reader must be positioned past the discarded field)", next)
	}
}
