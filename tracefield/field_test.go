package tracefield_test

import (
	"fmt"
	"testing"

	"github.com/jeromegn/tracing/tracefield"

	"github.com/stretchr/testify/assert"
)

// captureRecorder records calls as readable strings so tests can
// assert on order and dispatch.
type captureRecorder struct {
	calls []string
}

func (c *captureRecorder) Int64(k string, v int64)   { c.calls = append(c.calls, fmt.Sprintf("i %s=%d", k, v)) }
func (c *captureRecorder) Uint64(k string, v uint64) { c.calls = append(c.calls, fmt.Sprintf("u %s=%d", k, v)) }
func (c *captureRecorder) Bool(k string, v bool)     { c.calls = append(c.calls, fmt.Sprintf("b %s=%t", k, v)) }
func (c *captureRecorder) String(k string, v string) { c.calls = append(c.calls, fmt.Sprintf("s %s=%s", k, v)) }
func (c *captureRecorder) Any(k string, v interface{}) {
	c.calls = append(c.calls, fmt.Sprintf("a %s=%v", k, v))
}

func TestListDispatch(t *testing.T) {
	var rec captureRecorder
	tracefield.List{
		tracefield.Int64("i", -1),
		tracefield.Uint64("u", 2),
		tracefield.Bool("b", true),
		tracefield.String("s", "x"),
		tracefield.AnyImmutable("a", 3.5),
	}.Record(&rec)
	assert.Equal(t, []string{
		"i i=-1",
		"u u=2",
		"b b=true",
		"s s=x",
		"a a=3.5",
	}, rec.calls)
}

func TestZeroFieldRecordsNothing(t *testing.T) {
	var rec captureRecorder
	tracefield.Field{Key: "ghost"}.Record(&rec)
	assert.Empty(t, rec.calls)
}

func TestAnyCopiesValue(t *testing.T) {
	m := map[string]int{"a": 1}
	f := tracefield.Any("m", m)
	m["a"] = 99

	var rec captureRecorder
	f.Record(&rec)
	assert.Equal(t, []string{"a m=map[a:1]"}, rec.calls)
}

func TestAnyImmutableSharesValue(t *testing.T) {
	m := map[string]int{"a": 1}
	f := tracefield.AnyImmutable("m", m)
	m["a"] = 99

	var rec captureRecorder
	f.Record(&rec)
	assert.Equal(t, []string{"a m=map[a:99]"}, rec.calls)
}
