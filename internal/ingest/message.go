// SPDX-License-Identifier: MIT
package ingest

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrMalformedMessage is returned for frames that are not a JSON object with
// a numeric "d" array. Such frames are dropped; the previous target stays.
var ErrMalformedMessage = errors.New("ingest: malformed message")

// Message is the inbound wire shape: {"d": [n0, n1, ...]}.
type Message struct {
	D []float64 `json:"d"`
}

// Decode parses one frame and returns its data vector. A missing or null
// "d", a non-array "d" or any non-numeric entry fails the whole frame.
func Decode(frame []byte) ([]float64, error) {
	var raw struct {
		D json.RawMessage `json:"d"`
	}
	if err := json.Unmarshal(frame, &raw); err != nil {
		return nil, errors.Wrap(ErrMalformedMessage, err.Error())
	}
	if len(raw.D) == 0 || string(raw.D) == "null" {
		return nil, errors.Wrap(ErrMalformedMessage, `missing "d"`)
	}

	// Decode entries individually so null elements are rejected instead of
	// silently becoming zero.
	var entries []json.RawMessage
	if err := json.Unmarshal(raw.D, &entries); err != nil {
		return nil, errors.Wrap(ErrMalformedMessage, `"d" is not an array`)
	}
	data := make([]float64, len(entries))
	for i, e := range entries {
		if string(e) == "null" {
			return nil, errors.Wrapf(ErrMalformedMessage, `"d"[%d] is null`, i)
		}
		if err := json.Unmarshal(e, &data[i]); err != nil {
			return nil, errors.Wrapf(ErrMalformedMessage, `"d"[%d] is not a number`, i)
		}
	}
	return data, nil
}

// Encode serialises a data vector in the wire shape.
func Encode(data []float64) ([]byte, error) {
	return json.Marshal(Message{D: data})
}
