package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
	"github.com/dcode-github/yellow_pages_system/backend/utils"
)

const (
	maxSimilarResults    = 100
	maxMetaDescription   = 160
	slugInsertRetryLimit = 3
)

type BusinessService struct {
	repo repository.BusinessRepository
}

func NewBusinessService(repo repository.BusinessRepository) *BusinessService {
	return &BusinessService{repo: repo}
}

// Search runs a list query and returns the matching page together with
// pagination metadata computed from the full predicate count.
func (s *BusinessService) Search(ctx context.Context, q repository.ListQuery) ([]models.Business, models.Pagination, error) {
	q = q.Normalized()
	businesses, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return businesses, models.NewPagination(q.Page, q.Limit, total), nil
}

// GetByIDOrSlug resolves a business by identifier or slug: a 24-character
// hex string is treated as an ObjectID, anything else as a slug. Inactive
// businesses resolve to ErrNotFound. When countView is set the view
// counter is bumped atomically; crawler traffic must pass false.
func (s *BusinessService) GetByIDOrSlug(ctx context.Context, idOrSlug string, countView bool) (*models.Business, error) {
	var (
		b   *models.Business
		err error
	)
	if id, idErr := primitive.ObjectIDFromHex(idOrSlug); idErr == nil {
		b, err = s.repo.FindByID(ctx, id)
	} else {
		b, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, repository.ErrNotFound
	}

	if countView {
		if err := s.repo.IncrementViewCount(ctx, b.ID); err != nil {
			return nil, err
		}
		b.ViewCount++
	}
	return b, nil
}

// Similar returns up to limit businesses related to b, tight matches
// first. Phase one constrains to the same category and, when the source
// discloses its capital, the same capital tier. If that under-fills the
// limit, phase two relaxes to category-only, excluding everything already
// collected. Two store round-trips on purpose: the second predicate
// depends on the first phase's results.
func (s *BusinessService) Similar(ctx context.Context, b *models.Business, limit int) ([]models.Business, error) {
	if limit <= 0 || limit > maxSimilarResults {
		limit = maxSimilarResults
	}

	exclude := []primitive.ObjectID{b.ID}
	primary := repository.SimilarQuery{
		Category:   b.Category,
		ExcludeIDs: exclude,
		Limit:      limit,
	}
	tierConstrained := b.PaidUpCapitalRange != "" && b.PaidUpCapitalRange != models.CapitalRangeNotDisclosed
	if tierConstrained {
		primary.CapitalRange = b.PaidUpCapitalRange
	}

	results, err := s.repo.FindSimilar(ctx, primary)
	if err != nil {
		return nil, err
	}

	if tierConstrained && len(results) < limit {
		for _, r := range results {
			exclude = append(exclude, r.ID)
		}
		fallback := repository.SimilarQuery{
			Category:   b.Category,
			ExcludeIDs: exclude,
			Limit:      limit - len(results),
		}
		more, err := s.repo.FindSimilar(ctx, fallback)
		if err != nil {
			return nil, err
		}
		results = append(results, more...)
	}

	return results, nil
}

// Create persists a new business after running the derive-on-save
// pipeline. The slug collision retry budget is small; exhaustion
// surfaces the store error.
func (s *BusinessService) Create(ctx context.Context, b *models.Business) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.IsActive = true
	b.ViewCount = 0
	b.FavoriteCount = 0

	if !models.IsValidCategory(b.Category) {
		b.Category = models.Categorize(b.Name, b.Description)
	}
	applyDerived(b)

	if err := s.ensureUniqueSlug(ctx, b); err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		err := s.repo.Insert(ctx, b)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateSlug) || attempt >= slugInsertRetryLimit {
			return err
		}
		// Lost a slug race; re-disambiguate and retry.
		b.Slug = utils.SlugifyName(b.Name) + "-" + utils.SlugSuffix()
	}
}

// BusinessUpdate carries an administrative partial update. Nil fields are
// left untouched.
type BusinessUpdate struct {
	Name             *string                  `json:"name"`
	Category         *string                  `json:"category"`
	Description      *string                  `json:"description"`
	Location         *string                  `json:"location"`
	Coordinates      *models.Coordinates      `json:"coordinates"`
	Phone            *string                  `json:"phone"`
	Email            *string                  `json:"email"`
	Website          *string                  `json:"website"`
	SpecialOffers    *string                  `json:"specialOffers"`
	Images           *[]string                `json:"images"`
	PaidUpCapital    *float64                 `json:"paidUpCapital"`
	ManagerInfo      *models.ManagerInfo      `json:"managerInfo"`
	RegistrationInfo *models.RegistrationInfo `json:"registrationInfo"`
	MetaDescription  *string                  `json:"metaDescription"`
	IsActive         *bool                    `json:"isActive"`
}

// Update applies an administrative partial update and re-runs the
// derivations that depend on the changed fields: a renamed business gets
// a fresh unique slug, a changed positive capital gets its tier
// recomputed, an undisclosed capital keeps the undisclosed tier.
func (s *BusinessService) Update(ctx context.Context, id primitive.ObjectID, upd BusinessUpdate) (*models.Business, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nameChanged := false
	if upd.Name != nil && *upd.Name != b.Name {
		b.Name = *upd.Name
		nameChanged = true
	}
	if upd.Category != nil && models.IsValidCategory(*upd.Category) {
		b.Category = *upd.Category
	}
	if upd.Description != nil {
		b.Description = *upd.Description
	}
	if upd.Location != nil {
		b.Location = *upd.Location
	}
	if upd.Coordinates != nil {
		b.Coordinates = upd.Coordinates
	}
	if upd.Phone != nil {
		b.Phone = *upd.Phone
	}
	if upd.Email != nil {
		b.Email = *upd.Email
	}
	if upd.Website != nil {
		b.Website = *upd.Website
	}
	if upd.SpecialOffers != nil {
		b.SpecialOffers = *upd.SpecialOffers
	}
	if upd.Images != nil {
		b.Images = *upd.Images
	}
	if upd.PaidUpCapital != nil {
		b.PaidUpCapital = *upd.PaidUpCapital
	}
	if upd.ManagerInfo != nil {
		b.ManagerInfo = upd.ManagerInfo
	}
	if upd.RegistrationInfo != nil {
		b.RegistrationInfo = upd.RegistrationInfo
	}
	if upd.MetaDescription != nil {
		b.MetaDescription = *upd.MetaDescription
	}
	if upd.IsActive != nil {
		b.IsActive = *upd.IsActive
	}

	applyDerived(b)
	if nameChanged {
		if err := s.ensureUniqueSlug(ctx, b); err != nil {
			return nil, err
		}
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Deactivate soft-deletes a business. The record stays in the store and
// an administrative update can reactivate it.
func (s *BusinessService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	b.IsActive = false
	b.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, b)
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// CategoriesWithCounts annotates the fixed category list with live counts
// of active businesses.
func (s *BusinessService) CategoriesWithCounts(ctx context.Context) ([]NamedCount, error) {
	return s.countPerValue(ctx, "category", models.Categories)
}

// CapitalRangesWithCounts annotates the fixed tier list with live counts
// of active businesses.
func (s *BusinessService) CapitalRangesWithCounts(ctx context.Context) ([]NamedCount, error) {
	return s.countPerValue(ctx, "paidUpCapitalRange", models.CapitalRanges)
}

func (s *BusinessService) countPerValue(ctx context.Context, field string, values []string) ([]NamedCount, error) {
	counts := make([]NamedCount, 0, len(values))
	for _, v := range values {
		count, err := s.repo.CountActive(ctx, field, v)
		if err != nil {
			return nil, fmt.Errorf("counting %s %q: %w", field, v, err)
		}
		counts = append(counts, NamedCount{Name: v, Count: count})
	}
	return counts, nil
}

// applyDerived recomputes the write-time derivations that do not need
// store access: capital tier and meta description.
func applyDerived(b *models.Business) {
	if b.PaidUpCapital > 0 {
		b.PaidUpCapitalRange = models.CapitalRangeFor(b.PaidUpCapital)
	} else if b.PaidUpCapitalRange == "" {
		b.PaidUpCapitalRange = models.CapitalRangeNotDisclosed
	}
	if b.MetaDescription == "" {
		b.MetaDescription = deriveMetaDescription(b)
	}
}

func deriveMetaDescription(b *models.Business) string {
	if b.Description != "" {
		if len(b.Description) > maxMetaDescription {
			return b.Description[:maxMetaDescription]
		}
		return b.Description
	}
	return fmt.Sprintf("%s - %s in %s", b.Name, b.Category, b.Location)
}

// ensureUniqueSlug derives the slug base from the name and, on collision
// with an existing listing, appends a random disambiguator. Names with no
// usable characters get no slug; the index is sparse so absence is fine.
func (s *BusinessService) ensureUniqueSlug(ctx context.Context, b *models.Business) error {
	base := utils.SlugifyName(b.Name)
	if base == "" {
		b.Slug = ""
		return nil
	}

	exists, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return err
	}
	if !exists {
		b.Slug = base
		return nil
	}
	b.Slug = base + "-" + utils.SlugSuffix()
	return nil
}
