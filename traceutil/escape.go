package traceutil

/*

This file contains code that is direclty copied or derrived from
https://github.com/phuslu/log

The original is subject to the following license.

MIT License

Copyright (c) 2022 Phus Lu

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

*/

var escapes = [256]bool{
	'"':  true,
	'\\': true,
}

func init() {
	// Every control byte must be escaped or the emitted string is not
	// valid JSON, and stored span fields get re-parsed.
	for c := 0; c < 0x20; c++ {
		escapes[c] = true
	}
}

const hexDigits = "0123456789abcdef"

func (b *JBuilder) escapeString(s string) {
	n := len(s)
	j := 0
	if n > 0 {
		// Hint the compiler to remove bounds checks in the loop below.
		_ = s[n-1]
	}
	for i := 0; i < n; i++ {
		c := s[i]
		if !escapes[c] {
			continue
		}
		b.B = append(b.B, s[j:i]...)
		switch c {
		case '"':
			b.B = append(b.B, '\\', '"')
		case '\\':
			b.B = append(b.B, '\\', '\\')
		case '\n':
			b.B = append(b.B, '\\', 'n')
		case '\r':
			b.B = append(b.B, '\\', 'r')
		case '\t':
			b.B = append(b.B, '\\', 't')
		default:
			b.B = append(b.B, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		j = i + 1
	}
	b.B = append(b.B, s[j:]...)
}

func (b *JBuilder) string(s string) {
	for _, c := range []byte(s) {
		if escapes[c] {
			b.escapeString(s)
			return
		}
	}
	b.B = append(b.B, s...)
}
