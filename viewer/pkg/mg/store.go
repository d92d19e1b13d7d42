package mg

import (
	"context"
	"fmt"
	"time"

	"cgmview/viewer/defs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	GlucoseCollection = "glucose"
	InsulinCollection = "insulin"
	CarbsCollection   = "carbs"
)

type GlucoseStore interface {
	ReadGlucose(ctx context.Context, start, end time.Time) ([]defs.TransformedReading, error)
}

type InsulinStore interface {
	ReadInsulin(ctx context.Context, start, end time.Time) ([]defs.Insulin, error)
}

type CarbStore interface {
	ReadCarbs(ctx context.Context, start, end time.Time) ([]defs.Carb, error)
}

type MongoStore struct {
	Client *mongo.Client
	Logger *zap.Logger

	DBName string
}

func New(ctx context.Context, cfg defs.MongoConfig, logger *zap.Logger) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = defs.DefaultDB
	}

	return &MongoStore{
		Client: mongoClient,
		Logger: logger,
		DBName: dbName,
	}, nil
}

func (ms *MongoStore) Ping(ctx context.Context) error {
	if err := ms.Client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("unable to ping mongo: %w", err)
	}
	return nil
}

func (ms *MongoStore) Disconnect(ctx context.Context) error {
	return ms.Client.Disconnect(ctx)
}

func (ms *MongoStore) getEventsBetween(ctx context.Context, collection string, start, end time.Time, slicePtr interface{}) error {
	ms.Logger.Debug(
		"reading events",
		zap.String("collection", collection),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	findOptions := options.Find()
	findOptions.SetSort(bson.D{primitive.E{Key: "time", Value: 1}})

	cur, err := ms.Client.
		Database(ms.DBName).
		Collection(collection).
		Find(ctx, bson.M{
			"time": bson.M{
				"$gte": primitive.NewDateTimeFromTime(start),
				"$lte": primitive.NewDateTimeFromTime(end),
			},
		}, findOptions)
	if err != nil {
		ms.Logger.Debug(
			"unable to read events",
			zap.String("collection", collection),
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err),
		)
		return fmt.Errorf("unable to read events: %w", err)
	}

	return cur.All(ctx, slicePtr)
}

func (ms *MongoStore) ReadGlucose(ctx context.Context, start, end time.Time) ([]defs.TransformedReading, error) {
	var trs []defs.TransformedReading
	if err := ms.getEventsBetween(ctx, GlucoseCollection, start, end, &trs); err != nil {
		return nil, fmt.Errorf("unable to read glucose: %w", err)
	}
	return trs, nil
}

func (ms *MongoStore) ReadInsulin(ctx context.Context, start, end time.Time) ([]defs.Insulin, error) {
	var ins []defs.Insulin
	if err := ms.getEventsBetween(ctx, InsulinCollection, start, end, &ins); err != nil {
		return nil, fmt.Errorf("unable to read insulin: %w", err)
	}
	return ins, nil
}

func (ms *MongoStore) ReadCarbs(ctx context.Context, start, end time.Time) ([]defs.Carb, error) {
	var carbs []defs.Carb
	if err := ms.getEventsBetween(ctx, CarbsCollection, start, end, &carbs); err != nil {
		return nil, fmt.Errorf("unable to read carbs: %w", err)
	}
	return carbs, nil
}
