package query

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

const DecodeBase64 = "base64"

// Field is one projection entry. Decode and ContentType are empty when the
// entry does not carry them.
type Field struct {
	Key         string
	Decode      string
	ContentType string
}

type Projection []Field

// ParseFields translates `key1[:decode[:contentType]];key2;...`. Order is
// kept and keys are not deduplicated. Empty input means no projection (nil).
func ParseFields(s string) Projection {

	if s == "" {
		return nil
	}

	projection := Projection{}
	for _, entry := range strings.Split(s, ";") {
		tokens := strings.Split(entry, ":")
		field := Field{Key: tokens[0]}
		if len(tokens) > 1 {
			field.Decode = tokens[1]
		}
		if len(tokens) > 2 {
			field.ContentType = tokens[2]
		}
		projection = append(projection, field)
	}

	return projection
}

// ContentType returns the first content type label in the projection.
func (p Projection) ContentType() string {
	for _, field := range p {
		if field.ContentType != "" {
			return field.ContentType
		}
	}
	return ""
}

// Write emits the projected values of one document, in projection order.
// Strings are written raw, other values as JSON. Null and missing values are
// skipped.
func (p Projection) Write(w io.Writer, payload []byte) error {

	for _, field := range p {
		value := gjson.GetBytes(payload, field.Key)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}

		data := []byte(value.Raw)
		if value.Type == gjson.String {
			data = []byte(value.Str)
		}

		if field.Decode == DecodeBase64 {
			data = decodeBase64(data)
		}

		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// decodeBase64 accepts padded, unpadded and url-safe input. Input no
// encoding accepts is returned untouched.
func decodeBase64(data []byte) []byte {

	trimmed := strings.TrimSpace(string(data))
	for _, encoding := range base64Encodings {
		decoded, err := encoding.DecodeString(trimmed)
		if err == nil {
			return decoded
		}
	}

	return data
}
