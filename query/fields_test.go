package query

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {

	assert.Equal(t, Projection{
		{Key: "x.y", Decode: "base64", ContentType: "text/plain"},
		{Key: "z"},
	}, ParseFields("x.y:base64:text/plain;z"))

	assert.Nil(t, ParseFields(""))
}

func TestParseFields_NoDedup(t *testing.T) {

	assert.Equal(t, Projection{{Key: "a"}, {Key: "b"}, {Key: "a"}}, ParseFields("a;b;a"))
}

func TestProjection_ContentType(t *testing.T) {

	assert.Equal(t, "image/png", ParseFields("a;b:base64:image/png;c::text/plain").ContentType())
	assert.Equal(t, "", ParseFields("a;b").ContentType())
}

func TestProjection_Write(t *testing.T) {

	doc := []byte(`{"name":"Alice","n":3,"file":{"data":"aGVsbG8="},"raw":"aGk","none":null,"obj":{"a":1}}`)

	cases := map[string]string{
		"name":               "Alice",
		"name;n":             "Alice3",
		"file.data:base64":   "hello",
		"raw:base64":         "hi",
		"name:base64":        "Alice",
		"none;missing;name":  "Alice",
		"obj":                `{"a":1}`,
		"n;name;n":           "3Alice3",
		"file.data::image/x": "aGVsbG8=",
	}

	for fields, expected := range cases {
		b := &bytes.Buffer{}
		require.NoError(t, ParseFields(fields).Write(b, doc))
		assert.Equal(t, expected, b.String(), "fields %q", fields)
	}
}
