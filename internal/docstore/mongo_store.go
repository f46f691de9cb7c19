package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps each collection onto a MongoDB collection with the
// document id stored as a string _id. Transactions need a replica set.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	session mongo.SessionContext // set inside RunInTransaction
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

// ConnectMongo dials the server and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func (s *MongoStore) ctx(ctx context.Context) context.Context {
	if s.session != nil {
		return s.session
	}
	return ctx
}

// rawToDocument converts through relaxed extended JSON so nested values come
// back as plain maps and slices.
func rawToDocument(raw bson.Raw) (Document, error) {
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return Document{}, err
	}
	fields := Fields{}
	if err := json.Unmarshal(ext, &fields); err != nil {
		return Document{}, err
	}
	id, _ := fields["_id"].(string)
	delete(fields, "_id")
	return Document{ID: id, Fields: fields}, nil
}

func (s *MongoStore) collect(ctx context.Context, cur *mongo.Cursor) ([]Document, error) {
	defer cur.Close(ctx)
	var docs []Document
	for cur.Next(ctx) {
		doc, err := rawToDocument(cur.Current)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, cur.Err()
}

func (s *MongoStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	ctx = s.ctx(ctx)
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return s.collect(ctx, cur)
}

func (s *MongoStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	ctx = s.ctx(ctx)
	raw, err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	doc, err := rawToDocument(raw)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize reduces values to their JSON form so times and typed enums are
// stored exactly as the relational backend stores them.
func normalize(fields Fields) (bson.M, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	out := bson.M{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.New().String()
	normalized, err := normalize(fields)
	if err != nil {
		return "", err
	}
	body := bson.M{"_id": id}
	for k, v := range normalized {
		body[k] = v
	}
	if _, err := s.db.Collection(collection).InsertOne(s.ctx(ctx), body); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	set, err := normalize(fields)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(collection).UpdateOne(s.ctx(ctx),
		bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *MongoStore) Remove(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(s.ctx(ctx), bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *MongoStore) QueryWhere(ctx context.Context, collection, field string, value interface{}) ([]Document, error) {
	ctx = s.ctx(ctx)
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{field: value},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return s.collect(ctx, cur)
}

func (s *MongoStore) RunInTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.session != nil {
		return fn(s)
	}
	sess, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&MongoStore{client: s.client, db: s.db, session: sc})
	})
	return err
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
