package traceutil_test

import (
	"encoding/json"
	"testing"

	"github.com/jeromegn/tracing/traceutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComma(t *testing.T) {
	cases := []struct {
		name string
		have string
		want string
	}{
		{name: "empty", have: "", want: ""},
		{name: "after open brace", have: "{", want: "{"},
		{name: "after open bracket", have: "[", want: "["},
		{name: "after colon", have: `"k":`, want: `"k":`},
		{name: "after value", have: `"k":1`, want: `"k":1,`},
		{name: "after close brace", have: "{}", want: "{},"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := traceutil.JBuilder{B: []byte(tc.have)}
			b.Comma()
			assert.Equal(t, tc.want, string(b.B))
		})
	}
}

func TestAddString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "plain", want: `"plain"`},
		{in: `has "quotes"`, want: `"has \"quotes\""`},
		{in: "tab\tnewline\n", want: `"tab\tnewline\n"`},
		{in: "back\\slash", want: `"back\\slash"`},
		{in: "form\ffeed", want: `"form\u000cfeed"`},
		{in: "nul\x00byte", want: `"nul\u0000byte"`},
		{in: "a\x01b", want: `"a\u0001b"`},
		{in: "esc\x1bape", want: `"esc\u001bape"`},
		{in: "", want: `""`},
	}
	for _, tc := range cases {
		var b traceutil.JBuilder
		b.AddString(tc.in)
		assert.Equal(t, tc.want, string(b.B), "input %q", tc.in)
	}
}

func TestAddStringControlBytes(t *testing.T) {
	// Any control byte in a string must leave the output parseable.
	for c := 0; c < 0x20; c++ {
		var b traceutil.JBuilder
		b.AddString(string([]byte{'a', byte(c), 'b'}))
		assert.True(t, json.Valid(b.B), "byte 0x%02x: %s", c, b.B)
	}
}

func TestAddKey(t *testing.T) {
	var b traceutil.JBuilder
	b.AppendByte('{')
	b.AddKey("a")
	b.AddInt64(-1)
	b.AddKey(`we"ird`)
	b.AddUint64(2)
	b.AddSafeKey("c")
	b.AddBool(true)
	b.AppendByte('}')
	assert.Equal(t, `{"a":-1,"we\"ird":2,"c":true}`, string(b.B))
}

func TestFastKeysSkipEscaping(t *testing.T) {
	b := traceutil.JBuilder{FastKeys: true}
	b.AppendByte('{')
	b.AddKey("plain")
	b.AddInt64(1)
	b.AppendByte('}')
	assert.Equal(t, `{"plain":1}`, string(b.B))
}

func TestReset(t *testing.T) {
	var b traceutil.JBuilder
	b.AddString("something")
	b.Reset()
	assert.Empty(t, b.B)
	b.AddBool(false)
	assert.Equal(t, "false", string(b.B))
}

func TestGoroutineID(t *testing.T) {
	id := traceutil.GoroutineID()
	require.Greater(t, id, int64(0))
	// Stable within one goroutine.
	assert.Equal(t, id, traceutil.GoroutineID())

	other := make(chan int64)
	go func() {
		other <- traceutil.GoroutineID()
	}()
	assert.NotEqual(t, id, <-other)
}
