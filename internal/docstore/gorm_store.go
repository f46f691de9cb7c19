package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentRecord is the relational row backing one document.
type DocumentRecord struct {
	ID         string         `gorm:"primaryKey;type:varchar(64)"`
	Collection string         `gorm:"type:varchar(64);index;not null"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"index"`
	UpdatedAt  time.Time
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// GormStore keeps documents in a single JSON-column table. Works on
// PostgreSQL, MySQL and SQLite through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) toDocument(rec DocumentRecord) (Document, error) {
	fields := Fields{}
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, &fields); err != nil {
			return Document{}, fmt.Errorf("corrupt document %s/%s: %w", rec.Collection, rec.ID, err)
		}
	}
	return Document{ID: rec.ID, Fields: fields}, nil
}

func (s *GormStore) toDocuments(recs []DocumentRecord) ([]Document, error) {
	docs := make([]Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := s.toDocument(rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *GormStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	var recs []DocumentRecord
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC, id ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return s.toDocuments(recs)
}

func (s *GormStore) find(ctx context.Context, collection, id string) (*DocumentRecord, error) {
	var rec DocumentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	rec, err := s.find(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.toDocument(*rec)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	rec := DocumentRecord{
		ID:         uuid.New().String(),
		Collection: collection,
		Data:       datatypes.JSON(data),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *GormStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	rec, err := s.find(ctx, collection, id)
	if err != nil {
		return err
	}
	doc, err := s.toDocument(*rec)
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc.Fields[k] = v
	}
	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&DocumentRecord{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]interface{}{
			"data":       datatypes.JSON(data),
			"updated_at": time.Now(),
		}).Error
}

func (s *GormStore) Remove(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&DocumentRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// QueryWhere matches a top-level field by equality using the dialect's JSON
// extraction (JSONQuery). Intended for string-valued fields such as ids and
// enum codes.
func (s *GormStore) QueryWhere(ctx context.Context, collection, field string, value interface{}) ([]Document, error) {
	var recs []DocumentRecord
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Where(datatypes.JSONQuery("data").Equals(value, field)).
		Order("created_at ASC, id ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return s.toDocuments(recs)
}

func (s *GormStore) RunInTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
