package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	petserrors "pawmarket/internal/pets/errors"
	"pawmarket/pkg/config"
	"pawmarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Pets"

type mongoPetRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type PetRepository interface {
	Create(ctx context.Context, pet *model.Pet) error
	FindOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error)
	FindActiveOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error)
	FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Pet, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, petID, ownerID string, pet *model.Pet) error
	Deactivate(ctx context.Context, petID, ownerID string) error
}

func NewMongoPetRepository(cfg *config.Config) PetRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoPetRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPetRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPetRepository) Create(ctx context.Context, pet *model.Pet) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	pet.CreatedAt = now
	pet.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, pet)
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		pet.ID = oid.Hex()
	}
	return nil
}

// All lookups are scoped by owner so one customer can never see or book
// another customer's pet.
func (r *mongoPetRepository) FindOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
	return r.findOne(ctx, petID, ownerID, bson.M{})
}

func (r *mongoPetRepository) FindActiveOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
	return r.findOne(ctx, petID, ownerID, bson.M{"active": true})
}

func (r *mongoPetRepository) findOne(ctx context.Context, petID, ownerID string, extra bson.M) (*model.Pet, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(petID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", petserrors.ErrInvalidID, petID)
	}

	filter := bson.M{"_id": objectID, "owner_id": ownerID}
	for k, v := range extra {
		filter[k] = v
	}

	var pet model.Pet
	err = r.collection.FindOne(ctx, filter).Decode(&pet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, petserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pet: %w", err)
	}

	return &pet, nil
}

func (r *mongoPetRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Pet, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pets: %w", err)
	}
	defer cursor.Close(ctx)

	var pets []*model.Pet
	if err = cursor.All(ctx, &pets); err != nil {
		return nil, fmt.Errorf("failed to decode pets: %w", err)
	}

	return pets, nil
}

func (r *mongoPetRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count pets: %w", err)
	}
	return count, nil
}

func (r *mongoPetRepository) Update(ctx context.Context, petID, ownerID string, pet *model.Pet) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(petID)
	if err != nil {
		return fmt.Errorf("%w: %s", petserrors.ErrInvalidID, petID)
	}

	update := bson.M{
		"$set": bson.M{
			"name":       pet.Name,
			"species":    pet.Species,
			"breed":      pet.Breed,
			"age":        pet.Age,
			"weight_kg":  pet.WeightKg,
			"gender":     pet.Gender,
			"color":      pet.Color,
			"allergies":  pet.Allergies,
			"active":     pet.Active,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}

	if result.MatchedCount == 0 {
		return petserrors.ErrNotFound
	}

	return nil
}

// Deactivate soft-deletes: the pet stays for booking history but can no
// longer be booked.
func (r *mongoPetRepository) Deactivate(ctx context.Context, petID, ownerID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(petID)
	if err != nil {
		return fmt.Errorf("%w: %s", petserrors.ErrInvalidID, petID)
	}

	update := bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate pet: %w", err)
	}

	if result.MatchedCount == 0 {
		return petserrors.ErrNotFound
	}

	return nil
}
