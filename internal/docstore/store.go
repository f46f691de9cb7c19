// Package docstore is the document-store boundary: every farm record lives in
// a named collection as a flat field map keyed by a generated id.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned by GetByID, Update and Remove when the id
// does not exist in the collection.
var ErrDocumentNotFound = errors.New("document not found")

// Fields is a document body. Values are JSON-compatible.
type Fields = map[string]interface{}

// Document is one stored record.
type Document struct {
	ID     string
	Fields Fields
}

// Store is the minimal document-store contract the application consumes.
type Store interface {
	GetAll(ctx context.Context, collection string) ([]Document, error)
	GetByID(ctx context.Context, collection, id string) (*Document, error)
	Insert(ctx context.Context, collection string, fields Fields) (string, error)
	// Update merges top-level keys into the stored document.
	Update(ctx context.Context, collection, id string, fields Fields) error
	Remove(ctx context.Context, collection, id string) error
	QueryWhere(ctx context.Context, collection, field string, value interface{}) ([]Document, error)
	// RunInTransaction runs fn against a transactional view; any error
	// returned by fn rolls every write back.
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error
}

// Encode turns a typed record into Fields through its JSON form. The "id"
// key is dropped because the id lives outside the body.
func Encode(v interface{}) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// Decode fills out from a document, setting its "id" from doc.ID.
func Decode(doc Document, out interface{}) error {
	body := make(Fields, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		body[k] = v
	}
	body["id"] = doc.ID
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// Pick encodes v and keeps only the named keys, for partial updates.
func Pick(v interface{}, keys ...string) (Fields, error) {
	all, err := Encode(v)
	if err != nil {
		return nil, err
	}
	out := make(Fields, len(keys))
	for _, k := range keys {
		val, ok := all[k]
		if !ok {
			val = nil
		}
		out[k] = val
	}
	return out, nil
}
