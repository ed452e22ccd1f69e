package collection

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

type Collection struct {
	filename string // Just informative...
	file     *os.File
	Rows     []*Row
	byId     map[string]*Row
	mutex    *sync.RWMutex
	options  *Options
}

type Row struct {
	I       int // position in Rows
	Id      string
	Payload json.RawMessage
}

// OpenCollection replays the command log stored in filename (created when
// missing) and keeps it open for appending.
func OpenCollection(filename string, options *Options) (*Collection, error) {

	if options == nil {
		options = &Options{}
	}

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for read: %w", err)
	}
	defer f.Close()

	collection := &Collection{
		filename: filename,
		Rows:     []*Row{},
		byId:     map[string]*Row{},
		mutex:    &sync.RWMutex{},
		options:  options,
	}

	j := json.NewDecoder(f)
	for {
		command := &Command{}
		err := j.Decode(&command)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}

		err = collection.apply(command)
		if err != nil {
			zap.L().Warn("replay command",
				zap.String("collection", filename),
				zap.String("command", command.Name),
				zap.String("uuid", command.Uuid),
				zap.Error(err),
			)
		}
	}

	collection.file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	return collection, nil
}

func (c *Collection) apply(command *Command) error {

	switch command.Name {
	case CommandInsert:
		id, err := documentId(command.Payload)
		if err != nil {
			return err
		}
		return c.addRow(id, command.Payload)
	case CommandUpdate:
		id, err := documentId(command.Payload)
		if err != nil {
			return err
		}
		row, exists := c.byId[id]
		if !exists {
			return errNotFound(id)
		}
		row.Payload = command.Payload
	case CommandRemove:
		id, err := documentId(command.Payload)
		if err != nil {
			return err
		}
		return c.removeRow(id)
	default:
		return fmt.Errorf("unknown command '%s'", command.Name)
	}

	return nil
}

func (c *Collection) addRow(id string, payload json.RawMessage) error {

	if _, exists := c.byId[id]; exists {
		return errConflict(id)
	}

	row := &Row{
		I:       len(c.Rows),
		Id:      id,
		Payload: payload,
	}
	c.Rows = append(c.Rows, row)
	c.byId[id] = row

	return nil
}

func (c *Collection) removeRow(id string) error {

	row, exists := c.byId[id]
	if !exists {
		return errNotFound(id)
	}

	c.Rows = slices.Delete(c.Rows, row.I, row.I+1)
	for i := row.I; i < len(c.Rows); i++ {
		c.Rows[i].I = i
	}
	delete(c.byId, id)

	return nil
}

func (c *Collection) persist(name string, payload json.RawMessage) error {

	command := &Command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   payload,
	}

	err := json.NewEncoder(c.file).Encode(command)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}

	return nil
}

func marshal(item interface{}) ([]byte, error) {
	switch v := item.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("json encode payload: %w", err)
	}
	return payload, nil
}

// Insert stores a new document. A document without _id gets a generated
// one. The stored document is returned.
func (c *Collection) Insert(item interface{}) (json.RawMessage, error) {

	payload, err := marshal(item)
	if err != nil {
		return nil, err
	}

	payload, err = c.prepare(c.options.Hooks.BeforeInsert, payload)
	if err != nil {
		return nil, err
	}

	if !gjson.GetBytes(payload, IdField).Exists() {
		payload, err = sjson.SetBytes(payload, IdField, uuid.New().String())
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", IdField, err)
		}
	}

	id, err := documentId(payload)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}

	if _, exists := c.byId[id]; exists {
		return nil, errConflict(id)
	}

	err = c.persist(CommandInsert, payload)
	if err != nil {
		return nil, err
	}

	err = c.addRow(id, payload)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// Update merges item (RFC 7386 merge patch) into the document with the
// same _id and returns the result.
func (c *Collection) Update(item interface{}) (json.RawMessage, error) {

	patch, err := marshal(item)
	if err != nil {
		return nil, err
	}

	patch, err = c.prepare(c.options.Hooks.BeforeUpdate, patch)
	if err != nil {
		return nil, err
	}

	id, err := documentId(patch)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}

	row, exists := c.byId[id]
	if !exists {
		return nil, errNotFound(id)
	}

	newPayload, err := jsonpatch.MergePatch(row.Payload, patch)
	if err != nil {
		return nil, fmt.Errorf("cannot apply patch: %w", err)
	}

	err = c.persist(CommandUpdate, newPayload)
	if err != nil {
		return nil, err
	}

	row.Payload = newPayload

	return newPayload, nil
}

// Remove deletes the document with the same _id as item and returns it.
func (c *Collection) Remove(item interface{}) (json.RawMessage, error) {

	payload, err := marshal(item)
	if err != nil {
		return nil, err
	}

	payload, err = c.prepare(c.options.Hooks.BeforeDelete, payload)
	if err != nil {
		return nil, err
	}

	id, err := documentId(payload)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}

	row, exists := c.byId[id]
	if !exists {
		return nil, errNotFound(id)
	}
	removed := row.Payload

	persisted, err := json.Marshal(map[string]string{IdField: id})
	if err != nil {
		return nil, err
	}
	err = c.persist(CommandRemove, persisted)
	if err != nil {
		return nil, err
	}

	err = c.removeRow(id)
	if err != nil {
		return nil, err
	}

	return removed, nil
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.Rows)
}

func (c *Collection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
