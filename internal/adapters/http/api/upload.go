package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

// uploadField is the multipart form field carrying the CSV file.
const uploadField = "file"

// openUpload returns a reader over the uploaded CSV. Multipart requests are
// streamed part by part until the file field is found; any other request
// body is read as raw CSV. The body is capped at maxBytes.
func openUpload(w http.ResponseWriter, r *http.Request, op string, maxBytes int64) (io.Reader, error) {
	if r.ContentLength > maxBytes {
		return nil, NewKind(op, ErrTooLarge)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, WrapKind(op, ErrBadRequest, err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, NewKind(op, ErrMissingFile)
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, WrapKind(op, ErrTooLarge, err)
			}
			return nil, WrapKind(op, ErrBadRequest, err)
		}
		if part.FormName() == uploadField {
			return part, nil
		}
		_ = part.Close()
	}
}
