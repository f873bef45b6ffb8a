package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
)

// fakeBusinessRepo is an in-memory BusinessRepository for service tests.
// FindSimilar mirrors the store's contract: active only, category match,
// optional tier match, exclusion set, sorted by views then favorites.
type fakeBusinessRepo struct {
	businesses   map[primitive.ObjectID]*models.Business
	similarCalls []repository.SimilarQuery
	insertErrs   []error
}

func newFakeBusinessRepo(businesses ...*models.Business) *fakeBusinessRepo {
	r := &fakeBusinessRepo{businesses: make(map[primitive.ObjectID]*models.Business)}
	for _, b := range businesses {
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		copied := *b
		r.businesses[b.ID] = &copied
	}
	return r
}

func (r *fakeBusinessRepo) Search(ctx context.Context, q repository.ListQuery) ([]models.Business, int64, error) {
	var all []models.Business
	for _, b := range r.businesses {
		if b.IsActive {
			all = append(all, *b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	start := (q.Page - 1) * q.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeBusinessRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBusinessRepo) FindBySlug(ctx context.Context, slug string) (*models.Business, error) {
	for _, b := range r.businesses {
		if b.Slug == slug {
			copied := *b
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeBusinessRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeBusinessRepo) Insert(ctx context.Context, b *models.Business) error {
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	if b.Slug != "" {
		for _, existing := range r.businesses {
			if existing.Slug == b.Slug {
				return repository.ErrDuplicateSlug
			}
		}
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	copied := *b
	r.businesses[b.ID] = &copied
	return nil
}

func (r *fakeBusinessRepo) Save(ctx context.Context, b *models.Business) error {
	if _, ok := r.businesses[b.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *b
	r.businesses[b.ID] = &copied
	return nil
}

func (r *fakeBusinessRepo) FindSimilar(ctx context.Context, q repository.SimilarQuery) ([]models.Business, error) {
	r.similarCalls = append(r.similarCalls, q)

	excluded := make(map[primitive.ObjectID]bool, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}

	var matches []models.Business
	for _, b := range r.businesses {
		if !b.IsActive || b.Category != q.Category || excluded[b.ID] {
			continue
		}
		if q.CapitalRange != "" && b.PaidUpCapitalRange != q.CapitalRange {
			continue
		}
		matches = append(matches, *b)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ViewCount != matches[j].ViewCount {
			return matches[i].ViewCount > matches[j].ViewCount
		}
		return matches[i].FavoriteCount > matches[j].FavoriteCount
	})

	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

func (r *fakeBusinessRepo) IncrementViewCount(ctx context.Context, id primitive.ObjectID) error {
	b, ok := r.businesses[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.ViewCount++
	return nil
}

func (r *fakeBusinessRepo) IncrementFavoriteCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	b, ok := r.businesses[id]
	if !ok {
		return repository.ErrNotFound
	}
	if delta < 0 && b.FavoriteCount <= 0 {
		return nil
	}
	b.FavoriteCount += int64(delta)
	return nil
}

func (r *fakeBusinessRepo) CountActive(ctx context.Context, field, value string) (int64, error) {
	var count int64
	for _, b := range r.businesses {
		if !b.IsActive {
			continue
		}
		switch field {
		case "category":
			if b.Category == value {
				count++
			}
		case "paidUpCapitalRange":
			if b.PaidUpCapitalRange == value {
				count++
			}
		}
	}
	return count, nil
}

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		copied := *u
		r.users[u.ID] = &copied
	}
	return r
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Insert(ctx context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["firstName"].(string); ok {
		u.FirstName = v
	}
	if v, ok := fields["lastName"].(string); ok {
		u.LastName = v
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) AddFavorite(ctx context.Context, userID, businessID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if !u.HasFavorite(businessID) {
		u.Favorites = append(u.Favorites, businessID)
	}
	return nil
}

func (r *fakeUserRepo) RemoveFavorite(ctx context.Context, userID, businessID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := u.Favorites[:0]
	for _, id := range u.Favorites {
		if id != businessID {
			kept = append(kept, id)
		}
	}
	u.Favorites = kept
	return nil
}

func (r *fakeUserRepo) FindAllActive(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	var active []models.User
	for _, u := range r.users {
		if u.IsActive {
			active = append(active, *u)
		}
	}
	return active, int64(len(active)), nil
}
