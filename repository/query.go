package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/yellow_pages_system/backend/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery carries the caller's filter/sort/pagination request for the
// business list endpoint. Zero values mean "not set".
type ListQuery struct {
	Search       string
	Category     string
	Location     string
	CapitalRange string
	MinCapital   *float64
	MaxCapital   *float64
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// Normalized returns a copy with page and limit clamped to sane bounds.
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return q
}

// BuildListQuery translates a ListQuery into a Mongo filter and find
// options. All filters AND together on top of isActive; unrecognized
// category or capital-range values are ignored rather than rejected.
//
// Sort resolution order matters: an explicit sortBy wins, then text
// relevance when a search term is present, then name ascending.
func BuildListQuery(q ListQuery) (bson.M, *options.FindOptions) {
	q = q.Normalized()

	filter := bson.M{"isActive": true}

	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	if models.IsValidCategory(q.Category) {
		filter["category"] = q.Category
	}
	if q.Location != "" {
		filter["location"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(q.Location), Options: "i"}}
	}
	if models.IsValidCapitalRange(q.CapitalRange) {
		filter["paidUpCapitalRange"] = q.CapitalRange
	}
	if q.MinCapital != nil || q.MaxCapital != nil {
		capital := bson.M{}
		if q.MinCapital != nil {
			capital["$gte"] = *q.MinCapital
		}
		if q.MaxCapital != nil {
			capital["$lte"] = *q.MaxCapital
		}
		filter["paidUpCapital"] = capital
	}

	opts := options.Find().
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	switch q.SortBy {
	case "name":
		opts.SetSort(bson.D{{Key: "name", Value: sortDirection(q.SortOrder, 1)}})
	case "views":
		opts.SetSort(bson.D{{Key: "viewCount", Value: sortDirection(q.SortOrder, -1)}})
	case "favorites":
		opts.SetSort(bson.D{{Key: "favoriteCount", Value: sortDirection(q.SortOrder, -1)}})
	case "capital":
		opts.SetSort(bson.D{{Key: "paidUpCapital", Value: sortDirection(q.SortOrder, -1)}})
	case "newest":
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	case "oldest":
		opts.SetSort(bson.D{{Key: "createdAt", Value: 1}})
	default:
		if q.Search != "" {
			opts.SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}})
			opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		} else {
			opts.SetSort(bson.D{{Key: "name", Value: 1}})
		}
	}

	return filter, opts
}

func sortDirection(order string, def int) int {
	switch order {
	case "asc":
		return 1
	case "desc":
		return -1
	default:
		return def
	}
}
