package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	speakerserrors "podium/internal/speakers/errors"
	"podium/pkg/config"
	"podium/pkg/model"
)

const CollectionName = "Speakers"

type SpeakerRepository interface {
	Create(ctx context.Context, speaker *model.Speaker) error
	FindByID(ctx context.Context, id string) (*model.Speaker, error)
	FindAll(ctx context.Context, pageID string, limit int, offset int64) ([]*model.Speaker, error)
	Count(ctx context.Context, pageID string) (int64, error)
	CountByPage(ctx context.Context, pageID string) (int64, error)
	Update(ctx context.Context, id string, speaker *model.Speaker) error
	Delete(ctx context.Context, id string) error

	// SetAvailability replaces the embedded availability document as a
	// single unit. When guardFreeAt is non-nil the update only applies
	// while the speaker is still effectively free at that instant
	// (marked available, or locked for an already-elapsed program);
	// a concurrent booking that got there first makes the filter miss
	// and ErrStaleAvailability is returned.
	SetAvailability(ctx context.Context, id string, avail model.Availability, guardFreeAt *time.Time) error
}

type mongoSpeakerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSpeakerRepository(cfg *config.Config) SpeakerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpeakerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds a storage call without clobbering a tighter
// caller deadline. SessionContexts pass through untouched.
func (r *mongoSpeakerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSpeakerRepository) Create(ctx context.Context, speaker *model.Speaker) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	speaker.CreatedAt = now
	speaker.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, speaker)
	if err != nil {
		return fmt.Errorf("failed to create speaker: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		speaker.ID = oid.Hex()
	}

	return nil
}

func (r *mongoSpeakerRepository) FindByID(ctx context.Context, id string) (*model.Speaker, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", speakerserrors.ErrInvalidID, id)
	}

	var speaker model.Speaker
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&speaker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", speakerserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find speaker: %w", err)
	}

	return &speaker, nil
}

func (r *mongoSpeakerRepository) FindAll(ctx context.Context, pageID string, limit int, offset int64) ([]*model.Speaker, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if pageID != "" {
		filter["page_id"] = pageID
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query speakers: %w", err)
	}
	defer cursor.Close(ctx)

	var speakers []*model.Speaker
	if err := cursor.All(ctx, &speakers); err != nil {
		return nil, fmt.Errorf("failed to decode speakers: %w", err)
	}

	return speakers, nil
}

func (r *mongoSpeakerRepository) Count(ctx context.Context, pageID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if pageID != "" {
		filter["page_id"] = pageID
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count speakers: %w", err)
	}
	return count, nil
}

func (r *mongoSpeakerRepository) CountByPage(ctx context.Context, pageID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"page_id": pageID})
	if err != nil {
		return 0, fmt.Errorf("failed to count speakers for page %s: %w", pageID, err)
	}
	return count, nil
}

func (r *mongoSpeakerRepository) Update(ctx context.Context, id string, speaker *model.Speaker) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", speakerserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":         speaker.Name,
			"area":         speaker.Area,
			"phone_number": speaker.PhoneNumber,
			"page_id":      speaker.PageID,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update speaker: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", speakerserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoSpeakerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", speakerserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete speaker: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", speakerserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoSpeakerRepository) SetAvailability(ctx context.Context, id string, avail model.Availability, guardFreeAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", speakerserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	if guardFreeAt != nil {
		filter["$or"] = []bson.M{
			{"availability.is_available": true},
			{"availability.program_date": bson.M{"$lt": *guardFreeAt}},
		}
	}

	// One $set for the whole embedded document: the locked fields are
	// written or cleared atomically as a unit.
	update := bson.M{
		"$set": bson.M{
			"availability": avail,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update speaker availability: %w", err)
	}
	if result.MatchedCount == 0 {
		if guardFreeAt == nil {
			return fmt.Errorf("%w: %s", speakerserrors.ErrNotFound, id)
		}
		// The speaker either vanished or a concurrent booking won;
		// the service re-reads to tell which.
		return fmt.Errorf("%w: %s", speakerserrors.ErrStaleAvailability, id)
	}

	return nil
}
