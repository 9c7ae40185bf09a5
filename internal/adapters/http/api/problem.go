package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/hrdiagram/internal/adapters/csvload"
	"github.com/okian/hrdiagram/internal/adapters/plotting"
	"github.com/okian/hrdiagram/internal/domain/classify"
	"github.com/okian/hrdiagram/internal/domain/diagram"
)

// Error codes returned in errorResponse.Code.
const (
	codeParse      = "parse_error"
	codeValidation = "validation_error"
	codeLookup     = "lookup_error"
	codeBadRequest = "bad_request"
	codeTooLarge   = "too_large"
	codeCanceled   = "canceled"
	codeInternal   = "internal_error"
)

// Message shown when the upload lacks required columns.
const missingColumnsMessage = "Dataset is missing one or more required columns."

// statusClientClosedRequest is the de facto status for a client that went away.
const statusClientClosedRequest = 499

type problem struct {
	status  int
	code    string
	message string
	details []string
}

// problemFor classifies err. Order matters: a body that hit the size cap
// surfaces from the CSV reader as a parse error.
func problemFor(err error) problem {
	var (
		maxBytes *http.MaxBytesError
		missing  *csvload.MissingColumnsError
	)
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, ErrTooLarge):
		return problem{status: http.StatusRequestEntityTooLarge, code: codeTooLarge, message: "Upload exceeds the size limit."}
	case errors.As(err, &missing):
		return problem{status: http.StatusUnprocessableEntity, code: codeValidation, message: missingColumnsMessage, details: missing.Missing}
	case errors.Is(err, csvload.ErrMissingColumns):
		return problem{status: http.StatusUnprocessableEntity, code: codeValidation, message: missingColumnsMessage}
	case errors.Is(err, csvload.ErrInvalidValue), errors.Is(err, csvload.ErrTooManyRows),
		errors.Is(err, diagram.ErrInvalidData):
		return problem{status: http.StatusUnprocessableEntity, code: codeValidation, message: userMessage(err)}
	case errors.Is(err, csvload.ErrParse):
		return problem{status: http.StatusBadRequest, code: codeParse, message: userMessage(err)}
	case errors.Is(err, classify.ErrUnknownStarType):
		return problem{status: http.StatusUnprocessableEntity, code: codeLookup, message: userMessage(err)}
	case errors.Is(err, plotting.ErrUnsupportedFormat), errors.Is(err, ErrBadRequest), errors.Is(err, ErrMissingFile):
		return problem{status: http.StatusBadRequest, code: codeBadRequest, message: userMessage(err)}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return problem{status: statusClientClosedRequest, code: codeCanceled, message: "Request was cancelled."}
	default:
		return problem{status: http.StatusInternalServerError, code: codeInternal, message: "Failed to render the diagram."}
	}
}
