package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"docmind/internal/domain"
)

const maxRequestBodyBytes = 10 << 20 // 10 MiB, large enough for source uploads

// ParseJSON decodes the request body into dst, enforcing a size cap and
// rejecting unknown trailing content.
func ParseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrValidation, maxBytesErr.Limit)
		}
		return fmt.Errorf("%w: invalid JSON body", domain.ErrValidation)
	}

	// There must be exactly one JSON value.
	if dec.More() {
		return fmt.Errorf("%w: unexpected trailing content", domain.ErrValidation)
	}
	return nil
}
