// Package iojson writes command output as indented JSON so the CLI can
// be piped into jq and friends. Errors go to stderr in the same shape.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the envelope used for machine-readable errors on stderr.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// jsonError builds the envelope by hand for the case where marshaling
// itself failed. json.Marshal on the plain strings keeps the escaping
// correct.
func jsonError(msg string, jsonErr error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError renders an Error as indented JSON. If the data map
// cannot be marshaled, the result still carries msg plus the marshal
// error; a hit on that path means a bug in the caller.
func MarshalError(msg string, data map[string]any) string {
	resp := Error{Message: msg, Data: data}

	bits, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return jsonError(msg, err)
	}

	return string(bits)
}

// WriteError prints an Error envelope to stderr.
func WriteError(str string, data map[string]any) error {
	errstr := MarshalError(str, data)

	_, err := fmt.Fprintln(os.Stderr, errstr)
	return err
}

// WriteWith marshals obj as indented JSON onto w. A marshal failure is
// reported on ew instead, so w never carries half-formed output.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		errStr := jsonError("error marshaling in iojson.Write", err)
		_, err = fmt.Fprintln(ew, errStr)
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write is WriteWith on [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
