// Package tracefield is the typed field boundary between event/span
// sources and formatters. A source hands its fields to a Recorder one
// at a time; Field and List are the ready-made Source implementations.
package tracefield

import (
	"github.com/mohae/deepcopy"
)

// Recorder receives the typed fields of one event or of one span
// field-update. There is one entry point per supported native type
// and Any as the catch-all.
type Recorder interface {
	Int64(k string, v int64)
	Uint64(k string, v uint64)
	Bool(k string, v bool)
	String(k string, v string)
	Any(k string, v interface{})
}

// Source enumerates fields into a Recorder.
type Source interface {
	Record(Recorder)
}

type fieldType int

const (
	invalidType fieldType = iota
	int64Type
	uint64Type
	boolType
	stringType
	anyType
)

// Field is one name/value pair. The zero Field records nothing.
type Field struct {
	Key   string
	which fieldType
	i64   int64
	u64   uint64
	b     bool
	str   string
	any   interface{}
}

func Int64(k string, v int64) Field {
	return Field{Key: k, which: int64Type, i64: v}
}

func Uint64(k string, v uint64) Field {
	return Field{Key: k, which: uint64Type, u64: v}
}

func Bool(k string, v bool) Field {
	return Field{Key: k, which: boolType, b: v}
}

func String(k string, v string) Field {
	return Field{Key: k, which: stringType, str: v}
}

// Any captures a value that has no specialized entry point. The value
// might be modified after this call so it is copied now, using
// https://github.com/mohae/deepcopy 's Copy().
func Any(k string, v interface{}) Field {
	return AnyImmutable(k, deepcopy.Copy(v))
}

// AnyImmutable can be used for a value that is not going to be further
// modified after this call. It skips the deep copy that Any makes.
func AnyImmutable(k string, v interface{}) Field {
	return Field{Key: k, which: anyType, any: v}
}

var _ Source = Field{}

func (f Field) Record(r Recorder) {
	switch f.which {
	case int64Type:
		r.Int64(f.Key, f.i64)
	case uint64Type:
		r.Uint64(f.Key, f.u64)
	case boolType:
		r.Bool(f.Key, f.b)
	case stringType:
		r.String(f.Key, f.str)
	case anyType:
		r.Any(f.Key, f.any)
	}
}

// List records fields in order. A Recorder that keys by name sees the
// last value for a repeated name.
type List []Field

var _ Source = List{}

func (l List) Record(r Recorder) {
	for _, f := range l {
		f.Record(r)
	}
}
