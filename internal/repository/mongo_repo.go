package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Eursukkul/club-cms/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecordRepository[T any, P models.EntityPtr[T]] struct {
	col  *mongo.Collection
	kind models.Kind
}

// NewMongoRecordRepository stores records of kind T in the collection named after the kind.
// Identifiers are ObjectID hex strings.
func NewMongoRecordRepository[T any, P models.EntityPtr[T]](db *mongo.Database) RecordRepository[T] {
	kind := models.KindOf[T, P]()
	r := &mongoRecordRepository[T, P]{col: db.Collection(kind.Name), kind: kind}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.EnsureIndexes(ctx); err != nil {
		slog.Warn("ensure indexes", "collection", kind.Name, "error", err)
	}
	return r
}

func (r *mongoRecordRepository[T, P]) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName(r.kind.Name + "_created_at"),
		},
		{
			Keys:    bson.D{{Key: r.kind.FilterField, Value: 1}},
			Options: options.Index().SetName(r.kind.Name + "_" + r.kind.FilterField),
		},
	})
	if err != nil {
		return fmt.Errorf("%s indexes: %w", r.kind.Name, err)
	}
	return nil
}

func (r *mongoRecordRepository[T, P]) FindAll(ctx context.Context) ([]T, error) {
	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, storageErr("list "+r.kind.Name, err)
	}
	records := []T{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, storageErr("decode "+r.kind.Name, err)
	}
	return records, nil
}

func (r *mongoRecordRepository[T, P]) Create(ctx context.Context, record *T) error {
	rec := P(record).Common()
	now := mongoNow()
	oid := primitive.NewObjectID()
	rec.ID = oid.Hex()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	doc, err := insertDocument(record, oid)
	if err != nil {
		return storageErr("encode "+r.kind.Singular, err)
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return storageErr("insert "+r.kind.Singular, err)
	}
	return nil
}

func (r *mongoRecordRepository[T, P]) Replace(ctx context.Context, id string, record *T) (*T, error) {
	filter, ok := idFilter(id)
	if !ok {
		return nil, ErrNotFound
	}
	rec := P(record).Common()
	rec.ID = id
	rec.UpdatedAt = mongoNow()

	fields, err := replacementFields(record)
	if err != nil {
		return nil, storageErr("encode "+r.kind.Singular, err)
	}

	var stored T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, storageErr("update "+r.kind.Singular, err)
	}
	return &stored, nil
}

func (r *mongoRecordRepository[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	filter, ok := idFilter(id)
	if !ok {
		return nil, ErrNotFound
	}

	var stored T
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&stored); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, storageErr("delete "+r.kind.Singular, err)
	}
	return &stored, nil
}

// idFilter matches the ObjectID behind a hex id. Records are stored with
// ObjectID keys so documents written by other tools on the same database
// stay addressable; reads decode them back to hex strings.
func idFilter(id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid}, true
}

func insertDocument(record any, oid primitive.ObjectID) (bson.M, error) {
	doc, err := encodeFields(record)
	if err != nil {
		return nil, err
	}
	doc["_id"] = oid
	return doc, nil
}

// replacementFields encodes every field of record except the identity and
// creation time, so a $set with it replaces the whole client field set.
func replacementFields(record any) (bson.M, error) {
	fields, err := encodeFields(record)
	if err != nil {
		return nil, err
	}
	delete(fields, "_id")
	delete(fields, "createdAt")
	return fields, nil
}

func encodeFields(record any) (bson.M, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// mongoNow matches the millisecond precision BSON dates are stored with.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
