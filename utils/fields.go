package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"

	"inquiry-relay/models"
)

// ErrMalformedBody is returned when a body is not a flat object of fields.
var ErrMalformedBody = errors.New("malformed request body")

// DecodeJSONFields reads a JSON object and returns its members in document
// order. String values are returned unquoted; other values keep their
// compact JSON text.
func DecodeJSONFields(data []byte) ([]models.Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, ErrMalformedBody
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrMalformedBody
	}

	var fields []models.Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, ErrMalformedBody
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ErrMalformedBody
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, ErrMalformedBody
		}
		value, text, err := renderJSONValue(raw)
		if err != nil {
			return nil, ErrMalformedBody
		}
		fields = setField(fields, key, value, text)
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, ErrMalformedBody
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrMalformedBody
	}
	return fields, nil
}

// DecodeFormFields reads an application/x-www-form-urlencoded body in order.
func DecodeFormFields(data []byte) ([]models.Field, error) {
	var fields []models.Field
	for _, pair := range strings.Split(string(data), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, ErrMalformedBody
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, ErrMalformedBody
		}
		fields = setField(fields, key, value, true)
	}
	return fields, nil
}

// FieldValue returns the value stored under key, or "".
func FieldValue(fields []models.Field, key string) string {
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// TextValue is FieldValue restricted to text values: a key holding a JSON
// number, boolean, null, array or object reads as "".
func TextValue(fields []models.Field, key string) string {
	for _, f := range fields {
		if f.Key == key && f.Text {
			return f.Value
		}
	}
	return ""
}

// setField keeps the position of the first occurrence and the last value.
func setField(fields []models.Field, key, value string, text bool) []models.Field {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			fields[i].Text = text
			return fields
		}
	}
	return append(fields, models.Field{Key: key, Value: value, Text: text})
}

func renderJSONValue(raw json.RawMessage) (string, bool, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", false, err
	}
	return buf.String(), false, nil
}
