package registry

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/fulldump/docrest/collection"
)

// PatchIdentifier copies the public identifier field into the internal one
// when the document does not carry the internal identifier yet.
func PatchIdentifier(public, internal string) collection.Hook {
	return func(payload []byte) ([]byte, error) {

		if gjson.GetBytes(payload, internal).Exists() {
			return payload, nil
		}

		value := gjson.GetBytes(payload, public)
		if !value.Exists() || value.Type == gjson.Null {
			return payload, nil
		}

		return sjson.SetBytes(payload, internal, value.String())
	}
}
