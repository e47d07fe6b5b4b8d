package tracejson

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeromegn/tracing/tracefield"
	"github.com/jeromegn/tracing/traceutil"
)

// rawPrefix is the raw-identifier escape: a field literally named
// "type" arrives as "r#type" to sidestep the keyword. The marker is
// stripped so the stored key stays identifier-shaped.
const rawPrefix = "r#"

// logBridgePrefix is the dotted namespace reserved for metadata
// synthesized by the log-facade bridge. Those values are duplicated
// elsewhere in the output and must not leak into user fields.
const logBridgePrefix = "log."

const (
	fieldKey      = "field"
	fieldErrorKey = "field_error"
)

// Visitor captures one recording pass into a name-to-value map.
// Values are held pre-encoded as JSON. A repeated name within one
// pass keeps the last value; emission is in lexicographic key order,
// not recording order. The visitor itself never fails: a value with
// no specialized entry point degrades to its debug-string form.
type Visitor struct {
	// SkipLogMetadata drops fields in the "log." bridge namespace.
	SkipLogMetadata bool

	values map[string][]byte
}

var _ tracefield.Recorder = &Visitor{}

func NewVisitor() *Visitor {
	return &Visitor{
		values: make(map[string][]byte),
	}
}

// Len is the number of distinct captured keys.
func (v *Visitor) Len() int { return len(v.values) }

func (v *Visitor) key(k string) (string, bool) {
	if v.SkipLogMetadata && strings.HasPrefix(k, logBridgePrefix) {
		return "", false
	}
	return strings.TrimPrefix(k, rawPrefix), true
}

func (v *Visitor) Int64(k string, val int64) {
	k, ok := v.key(k)
	if !ok {
		return
	}
	var b traceutil.JBuilder
	b.AddInt64(val)
	v.values[k] = b.B
}

func (v *Visitor) Uint64(k string, val uint64) {
	k, ok := v.key(k)
	if !ok {
		return
	}
	var b traceutil.JBuilder
	b.AddUint64(val)
	v.values[k] = b.B
}

func (v *Visitor) Bool(k string, val bool) {
	k, ok := v.key(k)
	if !ok {
		return
	}
	var b traceutil.JBuilder
	b.AddBool(val)
	v.values[k] = b.B
}

func (v *Visitor) String(k string, val string) {
	k, ok := v.key(k)
	if !ok {
		return
	}
	var b traceutil.JBuilder
	b.AddString(val)
	v.values[k] = b.B
}

// Any is the catch-all: the value is rendered with its debug form and
// stored as a JSON string.
func (v *Visitor) Any(k string, val interface{}) {
	k, ok := v.key(k)
	if !ok {
		return
	}
	var b traceutil.JBuilder
	b.AddString(fmt.Sprintf("%+v", val))
	v.values[k] = b.B
}

// seed installs an already-encoded value under an already-normalized
// key, for merging previously stored data underneath a new pass.
func (v *Visitor) seed(k string, raw []byte) {
	v.values[k] = raw
}

// Append emits the captured entries into b in lexicographic key
// order, without surrounding braces.
func (v *Visitor) Append(b *traceutil.JBuilder) {
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.AddKey(k)
		b.AppendBytes(v.values[k])
	}
}

// Finish returns the captured fields as one complete JSON object.
func (v *Visitor) Finish() []byte {
	b := traceutil.JBuilder{
		B: make([]byte, 0, minBuffer/4),
	}
	b.AppendByte('{')
	v.Append(&b)
	b.AppendByte('}')
	return b.B
}
