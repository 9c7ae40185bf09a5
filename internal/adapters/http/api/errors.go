package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMissingFile      = errors.New("missing upload")
	ErrTooLarge         = errors.New("upload too large")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// kindError tags an error with the handler operation that produced it and a
// sentinel kind usable with errors.Is.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	switch {
	case e.err == nil:
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	case e.kind == nil:
		return fmt.Sprintf("%s: %v", e.op, e.err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
	}
}

func (e *kindError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind tags err with op and kind. A nil err yields NewKind.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// Wrap tags err with op only. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{op: op, err: err}
}

// userMessage drops the op prefixes added by this package so a client sees
// only the cause. A kind without a cause reports the kind itself.
func userMessage(err error) string {
	var ke *kindError
	for errors.As(err, &ke) {
		if ke.err == nil {
			if ke.kind == nil {
				break
			}
			return ke.kind.Error()
		}
		err = ke.err
	}
	return err.Error()
}
