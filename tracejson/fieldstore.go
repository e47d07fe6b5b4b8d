package tracejson

import (
	"encoding/json"
	"fmt"

	"github.com/jeromegn/tracing/tracefield"
	"github.com/jeromegn/tracing/traceregistry"
	"github.com/jeromegn/tracing/traceutil"
)

// FieldStore (re)serializes the fields recorded on one span. The
// stored form is, at rest, always either empty or one complete JSON
// object, so that formatting an event can splice it back out entry by
// entry.
type FieldStore struct {
	Policy    ErrorPolicy
	LogBridge bool
}

func (s FieldStore) visitor() *Visitor {
	v := NewVisitor()
	v.SkipLogMetadata = s.LogBridge
	return v
}

// Format serializes one recording pass with no prior state.
func (s FieldStore) Format(fields tracefield.Source) []byte {
	v := s.visitor()
	fields.Record(v)
	return v.Finish()
}

// Merge folds newly recorded fields into previously serialized data:
// new fields overwrite same-named entries, untouched entries survive
// unchanged, and the result is re-serialized whole. With empty prior
// data it is the same as Format.
//
// Non-empty prior data that does not parse as a JSON object is an
// internal invariant violation: this store is its only writer. Under
// Strict that panics; under Resilient the unreadable data is replaced
// by a "field_error" diagnostic and the new fields still land.
func (s FieldStore) Merge(current []byte, fields tracefield.Source) []byte {
	if len(current) == 0 {
		return s.Format(fields)
	}
	v := s.visitor()
	var prior map[string]json.RawMessage
	if err := json.Unmarshal(current, &prior); err != nil {
		if s.Policy == Strict {
			panic(fmt.Sprintf(
				"tracejson: previously stored span fields are malformed! this is a bug.\n  error: %s\n  fields: %q",
				err, current))
		}
		var b traceutil.JBuilder
		b.AddString(err.Error())
		v.seed(fieldErrorKey, b.B)
	} else {
		for k, raw := range prior {
			v.seed(k, raw)
		}
	}
	fields.Record(v)
	return v.Finish()
}

// RecordSpanFields folds fields into the span's stored field data,
// holding the span's extension slot exclusively for the duration of
// the read-modify-write.
func (f *Formatter) RecordSpanFields(span *traceregistry.Span, fields tracefield.Source) {
	_ = span.UpdateFields(func(current []byte) ([]byte, error) {
		return f.store.Merge(current, fields), nil
	})
}
