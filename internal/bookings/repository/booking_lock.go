package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "staywise/internal/bookings/errors"
	"staywise/pkg/config"
	"staywise/pkg/model"
)

const (
	LockCollectionName = "BookingLocks"
)

// BookingLockRepository serializes concurrent admissions for a property with
// an advisory lock document. The unique _id makes the second insert fail, and
// a TTL index on expires_at reclaims locks orphaned by a crash.
type BookingLockRepository interface {
	Acquire(ctx context.Context, propertyID string) error
	Release(ctx context.Context, propertyID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func lockID(propertyID string) string {
	return "booking_lock_" + propertyID
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, propertyID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        lockID(propertyID),
		ExpiresAt: now.Add(r.cfg.BookingLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingerrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}

	return nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, propertyID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID(propertyID)})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}

	return nil
}
