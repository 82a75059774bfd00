// Package json_util wraps github.com/goccy/go-json for request decoding and
// cache payload encoding.
package json_util

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// ErrEmptyBody is returned by DecodeBody when the reader holds no JSON value.
var ErrEmptyBody = errors.New("request body is empty")

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DecodeBody decodes exactly one JSON value from r into v. Unknown object keys
// are ignored; trailing data after the value is an error.
func DecodeBody(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}
