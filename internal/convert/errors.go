package convert

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the cause of a conversion failure.
type Kind int

const (
	// KindParse is a malformed or incomplete book document.
	KindParse Kind = iota + 1
	// KindIO is a failure of the output sink.
	KindIO
	// KindPackaging is a failure reported by the archive packager, or a
	// misuse of the assembler.
	KindPackaging
	// KindTemplate is a failure to render a template.
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindIO:
		return "io"
	case KindPackaging:
		return "packaging"
	case KindTemplate:
		return "template"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Stages reported in Error.
const (
	StageParse      = "parse"
	StageMetadata   = "metadata"
	StageStylesheet = "stylesheet"
	StageTitlePage  = "title page"
	StageChapter    = "chapter"
	StageFinalize   = "finalize"
)

var (
	// ErrOutOfOrder is returned when an assembler step is called before the
	// steps it depends on, or repeated.
	ErrOutOfOrder = errors.New("assembler step called out of order")
	// ErrFinalized is returned by any call after Finalize.
	ErrFinalized = errors.New("assembler already finalized")
)

// Error is the only error type returned by the conversion pipeline.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a conversion error, or 0 when err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
