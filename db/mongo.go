package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"brainchat/config"
	"brainchat/logger"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init initializes the global Mongo client and database using config values.
func Init(ctx context.Context) error {
	var initErr error
	clientOnce.Do(func() {
		cfg := config.GetConfig()
		uri := cfg.Env.MongoURI
		if uri == "" {
			// Fallback for local docker-compose default
			uri = "mongodb://localhost:27017/brainchat"
		}
		dbName := cfg.Env.MongoDBName
		if dbName == "" {
			dbName = "brainchat"
		}

		cl, err := mongo.NewClient(options.Client().ApplyURI(uri))
		if err != nil {
			initErr = err
			return
		}
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := cl.Connect(ctx); err != nil {
			initErr = err
			return
		}
		// Ping to verify connection
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			initErr = err
			return
		}
		client = cl
		db = client.Database(dbName)

		// Ensure indexes for all collections
		if err := ensureIndexes(ctx, db); err != nil {
			initErr = err
			return
		}
		logger.Log.Info("MongoDB connected and indexes ensured")
	})
	return initErr
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	// users: unique index on user_id
	{
		mi := mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_user_id").SetUnique(true),
		}
		if _, err := d.Collection("users").Indexes().CreateOne(ctx, mi); err != nil {
			return err
		}
	}

	// ai_logs: (user_id, requested_at desc) for per-user usage lookups
	{
		if _, err := d.Collection("ai_logs").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "requested_at", Value: -1}},
			Options: options.Index().SetName("idx_user_requested_at"),
		}); err != nil {
			return err
		}
	}
	return nil
}
