// Package savefile is the thin public facade over this module's versioned
// binary serialization engine and ABI-stable plugin-call layer.
//
// # Architecture Overview
//
// Most of the work lives in focused sub-packages; this root package only
// wires them together into the four public operations a caller needs:
//
//	savefile/        Root package: Save, SaveNoSchema, Load, LoadNoSchema
//	├── wire/        Primitive and container codec, file-format framing, fast path
//	├── schema/      Self-describing Schema type, compatibility diff, history store
//	├── version/     Versioned struct fields and enum variants, Removed, Effective
//	├── abi/         ABI dispatch protocol, layout-compatibility analyzer, connector
//	├── layout/      Native in-memory layout calculator shared by wire and abi
//	└── errors/      Structured error taxonomy used throughout
//
// # Quick start
//
// Save and load a value with its schema recorded in the stream:
//
//	type Point struct{ X, Y int64 }
//
//	func pointSchema(b *schema.Builder) *schema.Schema {
//	    return schema.NewStruct("Point", []schema.Field{
//	        {Name: "x", Schema: schema.NewPrimitive(schema.PrimI64)},
//	        {Name: "y", Schema: schema.NewPrimitive(schema.PrimI64)},
//	    })
//	}
//
//	func encodePoint(w *wire.Writer, p Point) error {
//	    if err := w.WriteI64(p.X); err != nil {
//	        return err
//	    }
//	    return w.WriteI64(p.Y)
//	}
//
//	func decodePoint(r *wire.Reader) (Point, error) {
//	    x, err := r.ReadI64()
//	    if err != nil {
//	        return Point{}, err
//	    }
//	    y, err := r.ReadI64()
//	    return Point{X: x, Y: y}, err
//	}
//
//	err := savefile.Save(w, 1, Point{X: 1, Y: 2}, pointSchema(schema.NewBuilder()), encodePoint)
//	p, err := savefile.Load(r, 1, pointSchema(schema.NewBuilder()), decodePoint)
//
// savefile itself never generates Schema/encode/decode triples from a Go
// type by reflection; producing that glue (by code generation or by hand)
// is left to callers, the same way the wire, schema, and version packages
// leave it to their own callers.
//
// # Thread safety
//
// Save/Load operations are stateless beyond the writer/reader they are
// given; distinct calls are independent and safe to run concurrently on
// distinct streams. An abi.Connector is not modified by Call after
// NewConnector returns; the process-wide template cache behind NewConnector
// is guarded by a mutex.
package savefile
