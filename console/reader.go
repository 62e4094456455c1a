package console

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Reader is an [Input] that scans lines from a stream.
type Reader struct {
	scanner *bufio.Scanner
	source  io.Reader
}

// NewReader returns a Reader over r. If r is an [io.Closer], Close closes it.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	return &Reader{scanner: scanner, source: r}
}

// ReadLine returns the next line without its terminator. It returns [io.EOF]
// at the end of the stream and the context's cause once ctx is done.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", context.Cause(ctx)
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return strings.TrimSuffix(r.scanner.Text(), "\r"), nil
}

// Close closes the underlying stream when it supports closing.
func (r *Reader) Close() error {
	if c, ok := r.source.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
