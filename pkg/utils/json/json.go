// Package json provides JSON helpers backed by sonic for hot paths,
// exposing an encoding/json-compatible surface.
package json

import (
	"io"

	"github.com/bytedance/sonic"
)

// API is the sonic configuration used throughout the service.
var API = sonic.ConfigStd

// Marshal returns the JSON encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	return API.Marshal(v)
}

// Unmarshal parses JSON data into v.
func Unmarshal(data []byte, v interface{}) error {
	return API.Unmarshal(data, v)
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) sonic.Decoder {
	return API.NewDecoder(r)
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) sonic.Encoder {
	return API.NewEncoder(w)
}
