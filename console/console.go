package console

import (
	"context"
	"errors"
)

// Input supplies lines to the interpreter. ReadLine returns [io.EOF] when
// no more lines are available.
type Input interface {
	ReadLine(ctx context.Context) (string, error)
	Close() error
}

// Output receives everything the interpreter prints.
type Output interface {
	WriteLine(s string)
	Prompt(s string)
	Error(err error)
}

// Recorder is implemented by inputs that keep a history of accepted lines.
type Recorder interface {
	Remember(line string) error
}

// Completer returns the candidates for the word that follows fields.
// An empty fields slice asks for the first word of a line.
type Completer func(fields []string) []string

// ErrOutOfBounds is returned for a history index outside the recorded range.
var ErrOutOfBounds = errors.New("index out of range")
