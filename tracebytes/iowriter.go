package tracebytes

import (
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var _ BytesWriter = IOWriter{}

type IOWriter struct {
	io.Writer
}

func WriteToIOWriter(w io.Writer) BytesWriter {
	return IOWriter{
		Writer: w,
	}
}

func (iow IOWriter) Buffered() bool { return false }
func (iow IOWriter) Flush() error   { return nil }
func (iow IOWriter) Line(line Line) error {
	_, err := iow.Write(line.AsBytes())
	line.ReclaimMemory()
	return err
}
func (iow IOWriter) Close() {
	if wc, ok := iow.Writer.(io.WriteCloser); ok {
		_ = wc.Close()
	}
}

var _ BytesWriter = TextWriter{}

// TextWriter bridges byte-oriented serialization into a text-oriented
// sink. Every line is checked to be valid UTF-8 before anything is
// handed to the sink; an invalid line is rejected whole.
type TextWriter struct {
	W io.StringWriter
}

func WriteToTextWriter(w io.StringWriter) BytesWriter {
	return TextWriter{
		W: w,
	}
}

func (tw TextWriter) Buffered() bool { return false }
func (tw TextWriter) Flush() error   { return nil }
func (tw TextWriter) Line(line Line) error {
	b := line.AsBytes()
	if !utf8.Valid(b) {
		line.ReclaimMemory()
		return errors.New("formatted line is not valid UTF-8")
	}
	_, err := tw.W.WriteString(string(b))
	line.ReclaimMemory()
	return errors.Wrap(err, "write line")
}
func (tw TextWriter) Close() {
	if wc, ok := tw.W.(io.Closer); ok {
		_ = wc.Close()
	}
}
