package repository

import (
	"context"
	"errors"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

// DocumentRepository is a typed view over one document collection.
// Failed store calls come back as *model.StoreError, a missing id as
// *model.NotFoundError.
type DocumentRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	// Create stores the record and returns the generated id.
	Create(ctx context.Context, record *T) (string, error)
	// Patch merges the given top-level fields.
	Patch(ctx context.Context, id string, fields docstore.Fields) error
	// Save overwrites every field of the record.
	Save(ctx context.Context, id string, record *T) error
	Delete(ctx context.Context, id string) error
	Where(ctx context.Context, field string, value interface{}) ([]T, error)
}

type documentRepository[T any] struct {
	store      docstore.Store
	collection string
	entity     string
}

func newDocumentRepository[T any](store docstore.Store, collection, entity string) DocumentRepository[T] {
	return &documentRepository[T]{store: store, collection: collection, entity: entity}
}

func (r *documentRepository[T]) wrap(op, id string, err error) error {
	if errors.Is(err, docstore.ErrDocumentNotFound) {
		return model.NewNotFoundError(r.entity, id)
	}
	logger.Error("Document store call failed", err, map[string]interface{}{
		"collection": r.collection,
		"op":         op,
		"id":         id,
	})
	return &model.StoreError{Op: op + " " + r.collection, Err: err}
}

func (r *documentRepository[T]) decodeAll(docs []docstore.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := docstore.Decode(doc, &v); err != nil {
			return nil, &model.StoreError{Op: "decode " + r.collection, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *documentRepository[T]) List(ctx context.Context) ([]T, error) {
	logger.Debug("Listing documents", map[string]interface{}{
		"collection": r.collection,
	})

	docs, err := r.store.GetAll(ctx, r.collection)
	if err != nil {
		return nil, r.wrap("getAll", "", err)
	}

	logger.Debug("Documents listed", map[string]interface{}{
		"collection": r.collection,
		"count":      len(docs),
	})
	return r.decodeAll(docs)
}

func (r *documentRepository[T]) Get(ctx context.Context, id string) (*T, error) {
	logger.Debug("Finding document by ID", map[string]interface{}{
		"collection": r.collection,
		"id":         id,
	})

	doc, err := r.store.GetByID(ctx, r.collection, id)
	if err != nil {
		return nil, r.wrap("getById", id, err)
	}

	var v T
	if err := docstore.Decode(*doc, &v); err != nil {
		return nil, &model.StoreError{Op: "decode " + r.collection, Err: err}
	}
	return &v, nil
}

func (r *documentRepository[T]) Create(ctx context.Context, record *T) (string, error) {
	fields, err := docstore.Encode(record)
	if err != nil {
		return "", &model.StoreError{Op: "encode " + r.collection, Err: err}
	}

	logger.Debug("Inserting document", map[string]interface{}{
		"collection": r.collection,
	})

	id, err := r.store.Insert(ctx, r.collection, fields)
	if err != nil {
		return "", r.wrap("insert", "", err)
	}

	logger.Debug("Document inserted", map[string]interface{}{
		"collection": r.collection,
		"id":         id,
	})
	return id, nil
}

func (r *documentRepository[T]) Patch(ctx context.Context, id string, fields docstore.Fields) error {
	logger.Debug("Updating document", map[string]interface{}{
		"collection": r.collection,
		"id":         id,
		"fields":     len(fields),
	})

	if err := r.store.Update(ctx, r.collection, id, fields); err != nil {
		return r.wrap("update", id, err)
	}
	return nil
}

func (r *documentRepository[T]) Save(ctx context.Context, id string, record *T) error {
	fields, err := docstore.Encode(record)
	if err != nil {
		return &model.StoreError{Op: "encode " + r.collection, Err: err}
	}

	// keys omitted by the new encoding are cleared, not kept
	current, err := r.store.GetByID(ctx, r.collection, id)
	if err != nil {
		return r.wrap("getById", id, err)
	}
	for k := range current.Fields {
		if _, ok := fields[k]; !ok {
			fields[k] = nil
		}
	}
	return r.Patch(ctx, id, fields)
}

func (r *documentRepository[T]) Delete(ctx context.Context, id string) error {
	logger.Debug("Removing document", map[string]interface{}{
		"collection": r.collection,
		"id":         id,
	})

	if err := r.store.Remove(ctx, r.collection, id); err != nil {
		return r.wrap("remove", id, err)
	}
	return nil
}

func (r *documentRepository[T]) Where(ctx context.Context, field string, value interface{}) ([]T, error) {
	logger.Debug("Querying documents", map[string]interface{}{
		"collection": r.collection,
		"field":      field,
		"value":      value,
	})

	docs, err := r.store.QueryWhere(ctx, r.collection, field, value)
	if err != nil {
		return nil, r.wrap("queryWhere", "", err)
	}
	return r.decodeAll(docs)
}
