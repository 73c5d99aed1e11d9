package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/example/campus-booking/internal/persistence"
)

const maxBodyBytes = 1 << 20

var errBadRequestBody = errors.New(msgInvalidBody)

// readBody returns the request body, treating an empty body as "{}".
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequestBody, err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", errBadRequestBody, maxBodyBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	return data, nil
}

// decodeJSON decodes a JSON object body into dst.
func decodeJSON(r *http.Request, dst any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequestBody, err)
	}
	return nil
}

// decodePatch decodes a JSON object body into its raw fields.
func decodePatch(r *http.Request) (persistence.Patch, error) {
	var patch persistence.Patch
	if err := decodeJSON(r, &patch); err != nil {
		return nil, err
	}
	if patch == nil {
		patch = persistence.Patch{}
	}
	return patch, nil
}
