package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/yellow_pages_system/backend/models"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicateSlug = errors.New("slug already exists")
)

// SimilarQuery selects active businesses related to a source listing.
// CapitalRange narrows to the same tier when set; ExcludeIDs always
// contains at least the source listing itself.
type SimilarQuery struct {
	Category     string
	CapitalRange string
	ExcludeIDs   []primitive.ObjectID
	Limit        int
}

type BusinessRepository interface {
	Search(ctx context.Context, q ListQuery) ([]models.Business, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error)
	FindBySlug(ctx context.Context, slug string) (*models.Business, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, b *models.Business) error
	Save(ctx context.Context, b *models.Business) error
	FindSimilar(ctx context.Context, q SimilarQuery) ([]models.Business, error)
	IncrementViewCount(ctx context.Context, id primitive.ObjectID) error
	// IncrementFavoriteCount adjusts favoriteCount by delta; decrements
	// are clamped so the counter never goes below zero.
	IncrementFavoriteCount(ctx context.Context, id primitive.ObjectID, delta int) error
	CountActive(ctx context.Context, field, value string) (int64, error)
}

type mongoBusinessRepository struct {
	col *mongo.Collection
}

func NewMongoBusinessRepository(col *mongo.Collection) BusinessRepository {
	return &mongoBusinessRepository{col: col}
}

func (r *mongoBusinessRepository) Search(ctx context.Context, q ListQuery) ([]models.Business, int64, error) {
	filter, opts := BuildListQuery(q)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("business search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []models.Business
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, 0, fmt.Errorf("decoding business search results failed: %w", err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting business search results failed: %w", err)
	}

	return businesses, total, nil
}

func (r *mongoBusinessRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoBusinessRepository) FindBySlug(ctx context.Context, slug string) (*models.Business, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoBusinessRepository) findOne(ctx context.Context, filter bson.M) (*models.Business, error) {
	var b models.Business
	err := r.col.FindOne(ctx, filter).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding business failed: %w", err)
	}
	return &b, nil
}

func (r *mongoBusinessRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking slug failed: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBusinessRepository) Insert(ctx context.Context, b *models.Business) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("inserting business failed: %w", err)
	}
	return nil
}

func (r *mongoBusinessRepository) Save(ctx context.Context, b *models.Business) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("saving business failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBusinessRepository) FindSimilar(ctx context.Context, q SimilarQuery) ([]models.Business, error) {
	filter := bson.M{
		"isActive": true,
		"category": q.Category,
		"_id":      bson.M{"$nin": q.ExcludeIDs},
	}
	if q.CapitalRange != "" {
		filter["paidUpCapitalRange"] = q.CapitalRange
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "viewCount", Value: -1}, {Key: "favoriteCount", Value: -1}}).
		SetLimit(int64(q.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("finding similar businesses failed: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []models.Business
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("decoding similar businesses failed: %w", err)
	}
	return businesses, nil
}

func (r *mongoBusinessRepository) IncrementViewCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"viewCount": 1}})
	if err != nil {
		return fmt.Errorf("incrementing view count failed: %w", err)
	}
	return nil
}

func (r *mongoBusinessRepository) IncrementFavoriteCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		// Atomic clamp: the decrement only matches while the counter is
		// still positive.
		filter["favoriteCount"] = bson.M{"$gt": 0}
	}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"favoriteCount": delta}})
	if err != nil {
		return fmt.Errorf("updating favorite count failed: %w", err)
	}
	return nil
}

func (r *mongoBusinessRepository) CountActive(ctx context.Context, field, value string) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"isActive": true, field: value})
	if err != nil {
		return 0, fmt.Errorf("counting businesses by %s failed: %w", field, err)
	}
	return count, nil
}
