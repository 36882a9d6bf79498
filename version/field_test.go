package version

import (
	"bytes"
	"testing"

	"github.com/avl/savefile-go/wire"
)

// TestFieldAdditionWithDefault mirrors spec §8 scenario 2: V1 {a,b}; V2
// {a,b,c: String default="hello"}. A value saved at version 0 has no bytes
// for c; loading it as V2 must yield the default.
func TestFieldAdditionWithDefault(t *testing.T) {
	c := Field[string]{
		Name:     "c",
		Interval: From(1),
		Default:  func() string { return "hello" },
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf, 0)
	if err := c.Serialize(w, "ignored", (*wire.Writer).WriteString); err != nil {
		t.Fatalf("Serialize at v0: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no bytes written for a field absent at v0, got %d", buf.Len())
	}

	r := wire.NewReader(&buf, 0)
	got, err := c.Deserialize(r, (*wire.Reader).ReadString)
	if err != nil {
		t.Fatalf("Deserialize at v0: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want default %q", got, "hello")
	}
}

func TestFieldPresentWithinInterval(t *testing.T) {
	a := Field[uint32]{Name: "a", Interval: All()}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf, 3)
	if err := a.Serialize(w, 42, (*wire.Writer).WriteU32); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	r := wire.NewReader(&buf, 3)
	got, err := a.Deserialize(r, (*wire.Reader).ReadU32)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

// TestFieldVersionAsMigration models a field stored as i32 through version
// 1 and widened to i64 from version 2 onward, with the pre-migration form
// decoded via an explicit historical conversion (spec §4.3 "version-as
// mapping").
func TestFieldVersionAsMigration(t *testing.T) {
	f := Field[int64]{
		Name:     "balance",
		Interval: From(2),
		History: []HistoricalForm[int64]{
			{
				Interval: Closed(0, 1),
				Decode: func(r *wire.Reader) (int64, error) {
					v, err := r.ReadI32()
					return int64(v), err
				},
			},
		},
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf, 0)
	if err := w.WriteI32(123); err != nil {
		t.Fatal(err)
	}

	r := wire.NewReader(&buf, 0)
	got, err := f.Deserialize(r, (*wire.Reader).ReadI64)
	if err != nil {
		t.Fatalf("Deserialize historical form: %v", err)
	}
	if got != 123 {
		t.Errorf("got %d, want 123", got)
	}

	// minSafe accounts for both the field's own added-at-2 boundary and the
	// historical form's removed-after-1 boundary; both land on 2.
	if v := f.MinSafeVersion(); v != 2 {
		t.Errorf("MinSafeVersion() = %d, want 2", v)
	}
}

func TestFieldMissingNoDefaultIsError(t *testing.T) {
	f := Field[uint32]{Name: "x", Interval: From(5)}
	var buf bytes.Buffer
	r := wire.NewReader(&buf, 0)
	if _, err := f.Deserialize(r, (*wire.Reader).ReadU32); err == nil {
		t.Fatal("expected error for missing field with no default")
	}
}

func TestFieldIgnoreSkipsBoth(t *testing.T) {
	f := Field[uint32]{Name: "x", Interval: All(), Ignore: true}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, 0)
	if err := f.Serialize(w, 99, (*wire.Writer).WriteU32); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("ignored field wrote %d bytes, want 0", buf.Len())
	}
	r := wire.NewReader(&buf, 0)
	got, err := f.Deserialize(r, (*wire.Reader).ReadU32)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("got %d, want zero value", got)
	}
}

func TestRequireVariantAvailable(t *testing.T) {
	if err := RequireVariantAvailable(From(2), 1, "NewShape"); err == nil {
		t.Fatal("expected fatal error serializing a variant absent at this version")
	}
	if err := RequireVariantAvailable(From(2), 2, "NewShape"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
