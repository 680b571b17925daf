package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"farmcrm/internal/common"
	"farmcrm/internal/logging"
	"farmcrm/internal/models"
)

const farmersCollection = "farmers"

// MongoStore implements Store on a MongoDB collection.
//
// updatedAt is assigned via $currentDate, so it carries the server clock.
// createdAt is set once on insert with the adapter clock ($setOnInsert
// cannot use $currentDate); both count as store-assigned for the purposes
// of timestamp confirmation.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    logging.Logger
}

// NewMongoStore connects to uri and pings the deployment with a short
// bounded backoff before returning. Chunk pushes are never retried here;
// transient failures defer to the next sync run.
func NewMongoStore(ctx context.Context, uri, dbName string, log logging.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	backoff := retry.WithMaxRetries(4, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			log.Debug(ctx, "mongo ping failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection(farmersCollection),
		log:    log,
	}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) GetAll(ctx context.Context) ([]*models.Farmer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

func (s *MongoStore) GetPage(ctx context.Context, cursorToken string, pageSize int) (*Page, error) {
	filter := bson.D{}
	if cursorToken != "" {
		c, err := decodeCursor(cursorToken)
		if err != nil {
			return nil, err
		}
		// resume strictly after (createdAt, _id) in descending order
		filter = bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "createdAt", Value: bson.D{{Key: "$lt", Value: c.CreatedAt}}}},
			bson.D{
				{Key: "createdAt", Value: c.CreatedAt},
				{Key: "_id", Value: bson.D{{Key: "$lt", Value: c.Id}}},
			},
		}}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(pageSize))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch farmer page: %w", err)
	}
	defer cur.Close(ctx)

	farmers, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, err
	}

	page := &Page{Farmers: farmers}
	if len(farmers) == pageSize {
		last := farmers[len(farmers)-1]
		page.NextCursor = encodeCursor(cursor{CreatedAt: last.CreatedAt.Time, Id: last.Id})
	}
	return page, nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*models.Farmer, error) {
	var result []*models.Farmer
	for cur.Next(ctx) {
		var doc farmerDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode farmer document: %w", err)
		}
		result = append(result, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate farmer documents: %w", err)
	}
	return result, nil
}

func upsertUpdate(f *models.Farmer, now time.Time) bson.D {
	return bson.D{
		{Key: "$set", Value: mutableFields(f)},
		{Key: "$currentDate", Value: bson.D{{Key: "updatedAt", Value: true}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
}

func (s *MongoStore) CreateWithID(ctx context.Context, f *models.Farmer) error {
	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: f.Id}},
		upsertUpdate(f, time.Now().UTC()), opts)
	if err != nil {
		return fmt.Errorf("failed to create farmer %s: %w", f.Id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, f *models.Farmer) error {
	update := bson.D{
		{Key: "$set", Value: mutableFields(f)},
		{Key: "$currentDate", Value: bson.D{{Key: "updatedAt", Value: true}}},
	}
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: f.Id}}, update)
	if err != nil {
		return fmt.Errorf("failed to update farmer %s: %w", f.Id, err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	// idempotent by contract: deleting an absent document is a no-op
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("failed to delete farmer %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) BatchWrite(ctx context.Context, fs []*models.Farmer) error {
	if len(fs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(fs))
	for _, f := range fs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: f.Id}}).
			SetUpdate(upsertUpdate(f, now)).
			SetUpsert(true))
	}

	if _, err := s.coll.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to batch-write %d farmers: %w", len(fs), err)
	}
	return nil
}
