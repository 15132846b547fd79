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

	pageserrors "podium/internal/pages/errors"
	"podium/pkg/config"
	"podium/pkg/model"
)

const CollectionName = "Pages"

type PageRepository interface {
	Create(ctx context.Context, page *model.Page) error
	FindByID(ctx context.Context, id string) (*model.Page, error)
	FindAll(ctx context.Context) ([]*model.Page, error)
	Update(ctx context.Context, id string, page *model.Page) error
	Delete(ctx context.Context, id string) error
}

type mongoPageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPageRepository(cfg *config.Config) PageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPageRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPageRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPageRepository) Create(ctx context.Context, page *model.Page) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	page.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, page)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", pageserrors.ErrDuplicateName, page.Name)
		}
		return fmt.Errorf("failed to create page: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		page.ID = oid.Hex()
	}

	return nil
}

func (r *mongoPageRepository) FindByID(ctx context.Context, id string) (*model.Page, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pageserrors.ErrInvalidID, id)
	}

	var page model.Page
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&page)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", pageserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find page: %w", err)
	}

	return &page, nil
}

func (r *mongoPageRepository) FindAll(ctx context.Context) ([]*model.Page, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "name", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []*model.Page
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode pages: %w", err)
	}

	return pages, nil
}

func (r *mongoPageRepository) Update(ctx context.Context, id string, page *model.Page) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", pageserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":  page.Name,
			"order": page.Order,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", pageserrors.ErrDuplicateName, page.Name)
		}
		return fmt.Errorf("failed to update page: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", pageserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoPageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", pageserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", pageserrors.ErrNotFound, id)
	}

	return nil
}
