package collection

import "encoding/json"

const (
	CommandInsert = "insert"
	CommandUpdate = "update"
	CommandRemove = "remove"
)

// Command is one line of the collection log. Insert and update carry the
// whole document; remove carries only {"_id": ...}.
type Command struct {
	Name      string          `json:"name"`
	Uuid      string          `json:"uuid"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}
