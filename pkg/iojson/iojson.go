// Package iojson writes command output as indented JSON.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the JSON body written when a command fails in JSON mode.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// fallback builds an error body by hand when marshaling itself failed.
func fallback(msg string, err error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(err.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// WriteWith writes obj to w as indented JSON. A value that cannot be
// marshaled is reported on ew instead.
func WriteWith(w, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, fallback("marshal output", err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteError writes an Error body to w.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(w, fallback(msg, err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
