package tracejson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jeromegn/tracing/tracefield"
	"github.com/jeromegn/tracing/tracenum"
	"github.com/jeromegn/tracing/traceregistry"
	"github.com/jeromegn/tracing/traceutil"
)

func (f *Formatter) line(level tracenum.Level, ts time.Time) *line {
	l := f.linePool.Get()
	l.Reset()
	l.level = level
	l.timestamp = ts
	return l
}

func (l *line) AsBytes() []byte          { return l.B }
func (l *line) GetLevel() tracenum.Level { return l.level }
func (l *line) GetTime() time.Time       { return l.timestamp }

func (l *line) ReclaimMemory() {
	if len(l.B) > maxBufferToKeep {
		return
	}
	l.formatter.linePool.Put(l)
}

// Event formats one event and writes it to the sink as a single JSON
// object followed by one newline. The current span, if any, comes
// from ctx. On a write failure the event is dropped whole: no partial
// line reaches the sink, the error goes to the reporter, and the
// error is returned.
func (f *Formatter) Event(ctx context.Context, ts time.Time, level tracenum.Level, target string, fields tracefield.Source) error {
	current, _ := traceregistry.SpanFromContext(ctx)

	l := f.line(level, ts)
	l.AppendByte('{') // }
	l.AddSafeKey("timestamp")
	l.B = f.timeFormatter(l.B, ts)
	l.AddSafeKey("level")
	l.AddSafeString(level.String())

	visitor := f.store.visitor()
	if fields != nil {
		fields.Record(visitor)
	}

	if f.format.FlattenEvent {
		visitor.Append(&l.JBuilder)
		if f.format.MergeParentFields {
			f.appendMergedSpanFields(&l.JBuilder, current)
		}
	} else {
		l.AddSafeKey("fields")
		l.AppendByte('{') // }
		visitor.Append(&l.JBuilder)
		if f.format.MergeParentFields {
			f.appendMergedSpanFields(&l.JBuilder, current)
		}
		// {
		l.AppendByte('}')
	}

	if f.displayTarget {
		l.AddSafeKey("target")
		l.AddString(target)
	}

	if f.format.DisplayCurrentSpan && current != nil {
		l.AddSafeKey("span")
		f.appendSpanObject(&l.JBuilder, current)
	}

	if f.format.DisplaySpanList && current != nil {
		if scope, err := current.Scope(); err != nil {
			f.errorFunc(err)
		} else {
			l.AddSafeKey("spans")
			l.AppendByte('[') // ]
			for _, span := range scope {
				l.Comma()
				f.appendSpanObject(&l.JBuilder, span)
			}
			// [
			l.AppendByte(']')
		}
	}

	// Goroutines carry no names, so the name display always takes the
	// numeric fallback, and only when the ID display won't already
	// cover it.
	if f.displayThreadName && !f.displayThreadID {
		l.AddSafeKey("threadName")
		l.AddSafeString(strconv.FormatInt(traceutil.GoroutineID(), 10))
	}
	if f.displayThreadID {
		l.AddSafeKey("threadId")
		l.AddSafeString(strconv.FormatInt(traceutil.GoroutineID(), 10))
	}

	l.AppendBytes([]byte{
		// {
		'}',
		'\n',
	})

	if err := f.writer.Line(l); err != nil {
		f.droppedCount.Inc()
		f.errorFunc(err)
		return err
	}
	f.eventCount.Inc()
	return nil
}

// appendSpanObject emits one span as an object: its stored fields,
// namespace-free, then its name.
func (f *Formatter) appendSpanObject(b *traceutil.JBuilder, span *traceregistry.Span) {
	b.AppendByte('{') // }
	f.appendSpanFields(b, span, "")
	b.AddSafeKey("name")
	b.AddString(span.Name())
	// {
	b.AppendByte('}')
}

// appendMergedSpanFields appends the stored fields of every span from
// the current span up through the root.
func (f *Formatter) appendMergedSpanFields(b *traceutil.JBuilder, current *traceregistry.Span) {
	if current == nil {
		return
	}
	ancestors, err := current.Ancestors()
	if err != nil {
		f.errorFunc(err)
		return
	}
	f.appendNamespacedSpanFields(b, current)
	for _, span := range ancestors {
		f.appendNamespacedSpanFields(b, span)
	}
}

func (f *Formatter) appendNamespacedSpanFields(b *traceutil.JBuilder, span *traceregistry.Span) {
	var prefix string
	if f.format.NamespaceParentFields {
		prefix = span.Name()
	}
	f.appendSpanFields(b, span, prefix)
}

// appendSpanFields re-emits a span's stored field object entry by
// entry, in stored order, optionally prefixing each key with the span
// name. The stored data is written exclusively by FieldStore and is
// one JSON object by construction; anything else is handled per the
// formatter's ErrorPolicy.
func (f *Formatter) appendSpanFields(b *traceutil.JBuilder, span *traceregistry.Span, prefix string) {
	data := span.Fields()
	if len(data) == 0 {
		return
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		if _, isTypeError := err.(*json.UnmarshalTypeError); isTypeError {
			// Valid JSON, but not an object.
			if f.policy == Strict {
				panic(fmt.Sprintf(
					"tracejson: span %q has malformed stored fields! this is a bug.\n  error: invalid JSON object\n  fields: %q",
					span.Name(), data))
			}
			b.AddSafeKey(fieldKey)
			b.AppendBytes(data)
			b.AddSafeKey(fieldErrorKey)
			b.AddString("field was not a valid object")
			return
		}
		if f.policy == Strict {
			panic(fmt.Sprintf(
				"tracejson: span %q has malformed stored fields! this is a bug.\n  error: %s\n  fields: %q",
				span.Name(), err, data))
		}
		b.AddSafeKey(fieldErrorKey)
		b.AddString(err.Error())
		return
	}

	// The data is a known-valid object; walk it again with a decoder
	// so entries come out in stored order and repeated keys survive.
	dec := json.NewDecoder(bytes.NewReader(data))
	_, _ = dec.Token() // {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			f.errorFunc(err)
			return
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			f.errorFunc(err)
			return
		}
		if prefix != "" {
			b.Comma()
			b.AppendByte('"')
			b.AddStringBody(prefix)
			b.AppendByte('.')
			b.AddStringBody(key)
			b.AppendByte('"')
			b.AppendByte(':')
		} else {
			b.AddKey(key)
		}
		b.AppendBytes(raw)
	}
}
