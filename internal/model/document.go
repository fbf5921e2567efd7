package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/deppfellow/hierarchy-api/internal/errs"
)

// Document is an open structured document stored as jsonb.
type Document map[string]any

var (
	errEmptyDocument = errors.New("document is empty")
	errNotAnObject   = errors.New("document must be a JSON object")
	errInvalidJSON   = errors.New("document is not valid JSON")
)

// unwrapText returns the JSON held by raw. A JSON string is replaced by its
// text, so `"{\"a\":1}"` and `{"a":1}` yield the same bytes.
func unwrapText(field string, raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &errs.ParseError{Field: field, Err: errEmptyDocument}
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, &errs.ParseError{Field: field, Err: err}
		}
		raw = []byte(strings.TrimSpace(text))
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return nil, &errs.ParseError{Field: field, Err: errEmptyDocument}
		}
	}

	return raw, nil
}

// ParseDocument decodes raw into a Document.
//
// raw is either a JSON object or a JSON string whose text is itself a JSON
// object. Anything else fails with *errs.ParseError naming field.
func ParseDocument(field string, raw []byte) (Document, error) {
	raw, err := unwrapText(field, raw)
	if err != nil {
		return nil, err
	}

	if raw[0] != '{' {
		return nil, &errs.ParseError{Field: field, Err: errNotAnObject}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &errs.ParseError{Field: field, Err: err}
	}

	return doc, nil
}

// ParseData validates raw as a data payload and returns it compacted.
//
// Any JSON value except null is accepted, and a JSON string is unwrapped the
// same way ParseDocument does.
func ParseData(field string, raw []byte) (json.RawMessage, error) {
	raw, err := unwrapText(field, raw)
	if err != nil {
		return nil, err
	}

	if !json.Valid(raw) {
		return nil, &errs.ParseError{Field: field, Err: errInvalidJSON}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, &errs.ParseError{Field: field, Err: err}
	}

	return buf.Bytes(), nil
}

// String returns the value at key when it is a non-blank string.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
