package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodtunes/internal/metrics"
	"moodtunes/internal/models"
)

const resultCacheCollection = "result_cache"

// cachedResults is the MongoDB document for one (mood, language) pair
type cachedResults struct {
	QueryHash   string                   `bson:"query_hash"`
	Mood        string                   `bson:"mood"`
	Language    string                   `bson:"language"`
	Videos      []*models.VideoCandidate `bson:"videos"`
	CreatedAt   time.Time                `bson:"created_at"`
	UpdatedAt   time.Time                `bson:"updated_at"`
	ExpiresAt   time.Time                `bson:"expires_at"`
	HitCount    int                      `bson:"hit_count"`
	ResultCount int                      `bson:"result_count"`
}

// PersistentResultCache keeps provider results in MongoDB so they survive restarts.
// MongoDB's TTL monitor reaps old documents; Get also deletes an expired
// document it runs into, since the monitor only runs once a minute.
type PersistentResultCache struct {
	collection *mongo.Collection
	ttl        time.Duration
}

// NewPersistentResultCache uses the result_cache collection of database
func NewPersistentResultCache(ctx context.Context, database *mongo.Database, ttl time.Duration) *PersistentResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	pc := &PersistentResultCache{
		collection: database.Collection(resultCacheCollection),
		ttl:        ttl,
	}

	if err := pc.ensureIndexes(ctx); err != nil {
		slog.Warn("Failed to create result cache indexes", "error", err)
	}
	return pc
}

func (pc *PersistentResultCache) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "query_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "hit_count", Value: -1}, {Key: "updated_at", Value: -1}},
		},
	}

	_, err := pc.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (pc *PersistentResultCache) Get(ctx context.Context, mood, language string) ([]*models.VideoCandidate, bool) {
	queryHash := ResultKey(mood, language)

	var cached cachedResults
	err := pc.collection.FindOne(ctx, bson.M{"query_hash": queryHash}).Decode(&cached)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			slog.Warn("Persistent result cache read failed", "mood", mood, "language", language, "error", err)
			metrics.CacheLookupsTotal.WithLabelValues("mongo", "error").Inc()
			return nil, false
		}
		metrics.CacheLookupsTotal.WithLabelValues("mongo", "miss").Inc()
		return nil, false
	}

	if !time.Now().Before(cached.ExpiresAt) {
		if _, err := pc.collection.DeleteOne(ctx, bson.M{"query_hash": queryHash}); err != nil {
			slog.Warn("Failed to evict expired result cache entry", "query_hash", queryHash, "error", err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("mongo", "expired").Inc()
		return nil, false
	}

	go pc.incrementHitCount(context.Background(), queryHash)

	metrics.CacheLookupsTotal.WithLabelValues("mongo", "hit").Inc()
	return cached.Videos, true
}

func (pc *PersistentResultCache) Put(ctx context.Context, mood, language string, videos []*models.VideoCandidate) {
	if videos == nil {
		videos = []*models.VideoCandidate{}
	}
	now := time.Now()
	queryHash := ResultKey(mood, language)

	update := bson.M{
		"$set": bson.M{
			"query_hash":   queryHash,
			"mood":         mood,
			"language":     language,
			"videos":       videos,
			"updated_at":   now,
			"expires_at":   now.Add(pc.ttl),
			"result_count": len(videos),
		},
		"$setOnInsert": bson.M{
			"created_at": now,
			"hit_count":  0,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := pc.collection.UpdateOne(ctx, bson.M{"query_hash": queryHash}, update, opts); err != nil {
		slog.Warn("Persistent result cache write failed", "mood", mood, "language", language, "error", err)
	}
}

// Stats summarizes the collection: entry count, total hits and the mean
// number of cached results per entry
func (pc *PersistentResultCache) Stats(ctx context.Context) (map[string]interface{}, error) {
	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":           nil,
				"total_entries": bson.M{"$sum": 1},
				"total_hits":    bson.M{"$sum": "$hit_count"},
				"avg_results":   bson.M{"$avg": "$result_count"},
			},
		},
		{"$project": bson.M{"_id": 0}},
	}

	cursor, err := pc.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate result cache stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := map[string]interface{}{"total_entries": 0}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return nil, fmt.Errorf("failed to decode result cache stats: %w", err)
		}
	}
	return stats, nil
}

func (pc *PersistentResultCache) incrementHitCount(ctx context.Context, queryHash string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$inc": bson.M{"hit_count": 1}}
	if _, err := pc.collection.UpdateOne(ctx, bson.M{"query_hash": queryHash}, update); err != nil {
		slog.Debug("Failed to bump result cache hit count", "query_hash", queryHash, "error", err)
	}
}
