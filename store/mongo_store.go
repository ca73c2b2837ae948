package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "salescheck/errors"
	"salescheck/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// recordDocument là dạng lưu của CheckInRecord trong MongoDB. OpenUserID chỉ
// có khi phiên còn mở; unique sparse index trên field này đảm bảo mỗi user có
// tối đa một phiên mở.
type recordDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	UserID       string        `bson:"user_id"`
	OpenUserID   string        `bson:"open_user_id,omitempty"`
	UserEmail    string        `bson:"user_email"`
	Name         string        `bson:"name"`
	CompanyName  string        `bson:"company_name"`
	Location     string        `bson:"location"`
	CheckInTime  time.Time     `bson:"check_in_time"`
	CheckOutTime *time.Time    `bson:"check_out_time,omitempty"`
	CheckInAdd   string        `bson:"check_in_add"`
	CheckOutAdd  string        `bson:"check_out_add,omitempty"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

func (d *recordDocument) toModel() models.CheckInRecord {
	return models.CheckInRecord{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		UserEmail:    d.UserEmail,
		Name:         d.Name,
		CompanyName:  d.CompanyName,
		Location:     d.Location,
		CheckInTime:  d.CheckInTime,
		CheckOutTime: d.CheckOutTime,
		CheckInAdd:   d.CheckInAdd,
		CheckOutAdd:  d.CheckOutAdd,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MongoStore struct {
	records *mongo.Collection
}

func NewMongoStore(ctx context.Context, db *MongoDB) (*MongoStore, error) {
	records := db.Collection("check_in_records")

	if _, err := records.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "open_user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "check_in_time", Value: -1}}},
		{Keys: bson.D{{Key: "check_in_time", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "company_name", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create check_in_records indexes: %w", err)
	}

	return &MongoStore{records: records}, nil
}

func (s *MongoStore) CreateOpenRecord(ctx context.Context, record *models.CheckInRecord) (string, error) {
	now := time.Now().UTC()
	doc := recordDocument{
		UserID:      record.UserID,
		OpenUserID:  record.UserID,
		UserEmail:   record.UserEmail,
		Name:        record.Name,
		CompanyName: record.CompanyName,
		Location:    record.Location,
		CheckInTime: record.CheckInTime.UTC().Truncate(time.Millisecond),
		CheckInAdd:  record.CheckInAdd,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := s.records.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.ErrOpenSessionExists
		}
		return "", fmt.Errorf("insert check-in record: %w", err)
	}

	id := res.InsertedID.(bson.ObjectID)
	record.ID = id.Hex()
	record.CheckInTime = doc.CheckInTime
	record.CheckOutTime = nil
	record.CreatedAt = now
	record.UpdatedAt = now
	return record.ID, nil
}

func (s *MongoStore) CloseRecord(ctx context.Context, id string, at time.Time, address string) (*models.CheckInRecord, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("close record %s: %w", id, apperrors.ErrRecordNotFound)
	}

	var doc recordDocument
	err = s.records.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "check_out_time": bson.M{"$exists": false}},
		bson.M{
			"$set": bson.M{
				"check_out_time": at.UTC().Truncate(time.Millisecond),
				"check_out_add":  address,
				"updated_at":     time.Now().UTC(),
			},
			"$unset": bson.M{"open_user_id": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, err := s.GetRecord(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("close record %s: %w", id, apperrors.ErrRecordAlreadyClose)
	}
	if err != nil {
		return nil, fmt.Errorf("close record %s: %w", id, err)
	}

	record := doc.toModel()
	return &record, nil
}

func (s *MongoStore) GetRecord(ctx context.Context, id string) (*models.CheckInRecord, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, apperrors.ErrRecordNotFound)
	}

	var doc recordDocument
	err = s.records.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get record %s: %w", id, apperrors.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	record := doc.toModel()
	return &record, nil
}

// FindOpenSession trả về phiên đang mở, nil nếu không có
func (s *MongoStore) FindOpenSession(ctx context.Context, userID string) (*models.CheckInRecord, error) {
	var doc recordDocument
	err := s.records.FindOne(ctx, bson.M{"open_user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open session: %w", err)
	}
	record := doc.toModel()
	return &record, nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.CheckInRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "check_in_time", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"user_id": userID}, opts)
}

func (s *MongoStore) Query(ctx context.Context, filter RecordFilter, page PageRequest) (*RecordPage, error) {
	cur, err := decodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	limit := page.normalizedLimit()

	query := mongoFilter(filter)
	if cur != nil {
		oid, err := bson.ObjectIDFromHex(cur.ID)
		if err != nil {
			return nil, apperrors.ErrInvalidCursor
		}
		query = bson.M{"$and": bson.A{query, bson.M{"$or": bson.A{
			bson.M{"check_in_time": bson.M{"$lt": cur.CheckInTime}},
			bson.M{"check_in_time": cur.CheckInTime, "_id": bson.M{"$lt": oid}},
		}}}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in_time", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit + 1))
	records, err := s.find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return buildPage(records, limit), nil
}

func (s *MongoStore) CountOpenSessions(ctx context.Context, olderThan time.Time) ([]OpenSessionCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"check_out_time": bson.M{"$exists": false}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$user_id",
			"count":  bson.M{"$sum": 1},
			"oldest": bson.M{"$min": "$check_in_time"},
		}}},
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"count": bson.M{"$gt": 1}},
			bson.M{"oldest": bson.M{"$lt": olderThan.UTC()}},
		}}}},
		{{Key: "$sort", Value: bson.M{"oldest": 1}}},
	}

	cursor, err := s.records.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate open sessions: %w", err)
	}
	results := make([]OpenSessionCount, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode open sessions: %w", err)
	}
	return results, nil
}

func (s *MongoStore) find(ctx context.Context, query bson.M, opts *options.FindOptionsBuilder) ([]models.CheckInRecord, error) {
	cursor, err := s.records.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	var docs []recordDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]models.CheckInRecord, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toModel())
	}
	return records, nil
}

func mongoFilter(filter RecordFilter) bson.M {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Name != "" {
		query["name"] = filter.Name
	}
	if filter.CompanyName != "" {
		query["company_name"] = filter.CompanyName
	}
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	timeRange := bson.M{}
	if filter.CheckInFrom != nil {
		timeRange["$gte"] = filter.CheckInFrom.UTC()
	}
	if filter.CheckInUntil != nil {
		timeRange["$lt"] = filter.CheckInUntil.UTC()
	}
	if len(timeRange) > 0 {
		query["check_in_time"] = timeRange
	}
	return query
}
