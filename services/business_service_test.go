package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
)

func activeBusiness(name, category, tier string, views int64) *models.Business {
	return &models.Business{
		ID:                 primitive.NewObjectID(),
		Name:               name,
		Category:           category,
		PaidUpCapitalRange: tier,
		ViewCount:          views,
		IsActive:           true,
	}
}

func TestSimilarFillsFromTierThenCategory(t *testing.T) {
	source := activeBusiness("Source Cafe", models.CategoryRestaurants, models.CapitalRange10KTo50K, 0)

	tierA := activeBusiness("Tier A", models.CategoryRestaurants, models.CapitalRange10KTo50K, 30)
	tierB := activeBusiness("Tier B", models.CategoryRestaurants, models.CapitalRange10KTo50K, 20)
	tierC := activeBusiness("Tier C", models.CategoryRestaurants, models.CapitalRange10KTo50K, 10)
	otherTier := activeBusiness("Other Tier", models.CategoryRestaurants, models.CapitalRange1MTo5M, 99)
	otherCategory := activeBusiness("Other Category", models.CategoryHospitals, models.CapitalRange10KTo50K, 99)

	repo := newFakeBusinessRepo(source, tierA, tierB, tierC, otherTier, otherCategory)
	svc := NewBusinessService(repo)

	results, err := svc.Similar(context.Background(), source, 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Three tier matches ranked by views, then the best category-only match.
	assert.Equal(t, "Tier A", results[0].Name)
	assert.Equal(t, "Tier B", results[1].Name)
	assert.Equal(t, "Tier C", results[2].Name)
	assert.Equal(t, "Other Tier", results[3].Name)

	require.Len(t, repo.similarCalls, 2)
	assert.Equal(t, models.CapitalRange10KTo50K, repo.similarCalls[0].CapitalRange)
	assert.Equal(t, "", repo.similarCalls[1].CapitalRange)
	assert.Equal(t, 1, repo.similarCalls[1].Limit)

	seen := make(map[primitive.ObjectID]bool)
	for _, r := range results {
		assert.NotEqual(t, source.ID, r.ID)
		assert.False(t, seen[r.ID], "duplicate result %s", r.Name)
		seen[r.ID] = true
	}
}

func TestSimilarSingleQueryWhenTierFillsLimit(t *testing.T) {
	source := activeBusiness("Source", models.CategoryRestaurants, models.CapitalRange10KTo50K, 0)
	peer1 := activeBusiness("Peer 1", models.CategoryRestaurants, models.CapitalRange10KTo50K, 5)
	peer2 := activeBusiness("Peer 2", models.CategoryRestaurants, models.CapitalRange10KTo50K, 3)

	repo := newFakeBusinessRepo(source, peer1, peer2)
	svc := NewBusinessService(repo)

	results, err := svc.Similar(context.Background(), source, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Len(t, repo.similarCalls, 1)
}

func TestSimilarUndisclosedTierSkipsFallback(t *testing.T) {
	source := activeBusiness("Source", models.CategoryRestaurants, models.CapitalRangeNotDisclosed, 0)
	peer := activeBusiness("Peer", models.CategoryRestaurants, models.CapitalRange1MTo5M, 5)

	repo := newFakeBusinessRepo(source, peer)
	svc := NewBusinessService(repo)

	results, err := svc.Similar(context.Background(), source, 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// Without a tier constraint a relaxed pass would repeat the same
	// predicate, so only one store query runs.
	require.Len(t, repo.similarCalls, 1)
	assert.Equal(t, "", repo.similarCalls[0].CapitalRange)
}

func TestGetByIDOrSlug(t *testing.T) {
	b := activeBusiness("Metro Clinic", models.CategoryHospitals, models.CapitalRange50KTo100K, 10)
	b.Slug = "metro-clinic"
	inactive := activeBusiness("Closed Shop", models.CategoryRetail, models.CapitalRangeNotDisclosed, 0)
	inactive.IsActive = false

	repo := newFakeBusinessRepo(b, inactive)
	svc := NewBusinessService(repo)
	ctx := context.Background()

	byID, err := svc.GetByIDOrSlug(ctx, b.ID.Hex(), false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, byID.ID)
	assert.EqualValues(t, 10, byID.ViewCount)

	bySlug, err := svc.GetByIDOrSlug(ctx, "metro-clinic", true)
	require.NoError(t, err)
	assert.Equal(t, b.ID, bySlug.ID)
	assert.EqualValues(t, 11, bySlug.ViewCount)

	stored, _ := repo.FindByID(ctx, b.ID)
	assert.EqualValues(t, 11, stored.ViewCount)

	_, err = svc.GetByIDOrSlug(ctx, inactive.ID.Hex(), false)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.GetByIDOrSlug(ctx, "no-such-slug", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateDerivesFields(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := NewBusinessService(repo)

	b := &models.Business{
		Name:          "Café Delight",
		Description:   "Cozy pizza restaurant downtown.",
		Location:      "Downtown",
		PaidUpCapital: 25000,
	}
	require.NoError(t, svc.Create(context.Background(), b))

	assert.Equal(t, "cafe-delight", b.Slug)
	assert.Equal(t, models.CategoryRestaurants, b.Category)
	assert.Equal(t, models.CapitalRange10KTo50K, b.PaidUpCapitalRange)
	assert.Equal(t, "Cozy pizza restaurant downtown.", b.MetaDescription)
	assert.True(t, b.IsActive)
	assert.False(t, b.CreatedAt.IsZero())
}

func TestCreateUndisclosedCapital(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := NewBusinessService(repo)

	b := &models.Business{Name: "Quiet Books", Category: models.CategoryRetail, Location: "Midtown"}
	require.NoError(t, svc.Create(context.Background(), b))

	assert.Equal(t, models.CapitalRangeNotDisclosed, b.PaidUpCapitalRange)
	assert.Equal(t, "Quiet Books - Retail in Midtown", b.MetaDescription)
}

func TestCreateDisambiguatesDuplicateSlug(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := NewBusinessService(repo)
	ctx := context.Background()

	first := &models.Business{Name: "Sunrise Bakery", Category: models.CategoryRestaurants}
	require.NoError(t, svc.Create(ctx, first))
	assert.Equal(t, "sunrise-bakery", first.Slug)

	second := &models.Business{Name: "Sunrise Bakery", Category: models.CategoryRestaurants}
	require.NoError(t, svc.Create(ctx, second))

	assert.True(t, strings.HasPrefix(second.Slug, "sunrise-bakery-"))
	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestCreateRetriesOnSlugRace(t *testing.T) {
	repo := newFakeBusinessRepo()
	repo.insertErrs = []error{repository.ErrDuplicateSlug}
	svc := NewBusinessService(repo)

	b := &models.Business{Name: "Race Cafe", Category: models.CategoryRestaurants}
	require.NoError(t, svc.Create(context.Background(), b))
	assert.True(t, strings.HasPrefix(b.Slug, "race-cafe-"))
}

func TestUpdateRenameRefreshesSlug(t *testing.T) {
	b := activeBusiness("Old Name", models.CategoryRetail, models.CapitalRangeNotDisclosed, 0)
	b.Slug = "old-name"

	repo := newFakeBusinessRepo(b)
	svc := NewBusinessService(repo)

	newName := "Fresh Name"
	updated, err := svc.Update(context.Background(), b.ID, BusinessUpdate{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Fresh Name", updated.Name)
	assert.Equal(t, "fresh-name", updated.Slug)
}

func TestUpdateRecomputesTierAndKeepsUndisclosed(t *testing.T) {
	b := activeBusiness("Capital Co", models.CategoryFinance, models.CapitalRange10KTo50K, 0)
	b.PaidUpCapital = 25000
	b.MetaDescription = "Hand-written blurb."

	repo := newFakeBusinessRepo(b)
	svc := NewBusinessService(repo)
	ctx := context.Background()

	capital := 2000000.0
	updated, err := svc.Update(ctx, b.ID, BusinessUpdate{PaidUpCapital: &capital})
	require.NoError(t, err)
	assert.Equal(t, models.CapitalRange1MTo5M, updated.PaidUpCapitalRange)
	assert.Equal(t, "Hand-written blurb.", updated.MetaDescription)

	undisclosed := 0.0
	updated, err = svc.Update(ctx, b.ID, BusinessUpdate{PaidUpCapital: &undisclosed})
	require.NoError(t, err)
	// Zeroed capital keeps the previous tier rather than resetting it.
	assert.Equal(t, models.CapitalRange1MTo5M, updated.PaidUpCapitalRange)
}

func TestUpdateIgnoresUnknownCategory(t *testing.T) {
	b := activeBusiness("Stable Co", models.CategoryRetail, models.CapitalRangeNotDisclosed, 0)
	repo := newFakeBusinessRepo(b)
	svc := NewBusinessService(repo)

	bogus := "Spaceships"
	updated, err := svc.Update(context.Background(), b.ID, BusinessUpdate{Category: &bogus})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRetail, updated.Category)
}

func TestDeactivateHidesBusiness(t *testing.T) {
	b := activeBusiness("Closing Down", models.CategoryRetail, models.CapitalRangeNotDisclosed, 0)
	repo := newFakeBusinessRepo(b)
	svc := NewBusinessService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, b.ID))

	_, err := svc.GetByIDOrSlug(ctx, b.ID.Hex(), false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSearchPaginationMeta(t *testing.T) {
	var seed []*models.Business
	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		seed = append(seed, activeBusiness(name, models.CategoryRetail, models.CapitalRangeNotDisclosed, 0))
	}
	repo := newFakeBusinessRepo(seed...)
	svc := NewBusinessService(repo)

	results, pagination, err := svc.Search(context.Background(), repository.ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.EqualValues(t, 5, pagination.TotalItems)
	assert.True(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPrevPage)
}

func TestCategoriesWithCounts(t *testing.T) {
	repo := newFakeBusinessRepo(
		activeBusiness("A", models.CategoryRestaurants, models.CapitalRangeNotDisclosed, 0),
		activeBusiness("B", models.CategoryRestaurants, models.CapitalRangeNotDisclosed, 0),
		activeBusiness("C", models.CategoryHospitals, models.CapitalRangeNotDisclosed, 0),
	)
	svc := NewBusinessService(repo)

	counts, err := svc.CategoriesWithCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, len(models.Categories))

	byName := make(map[string]int64, len(counts))
	for _, c := range counts {
		byName[c.Name] = c.Count
	}
	assert.EqualValues(t, 2, byName[models.CategoryRestaurants])
	assert.EqualValues(t, 1, byName[models.CategoryHospitals])
	assert.EqualValues(t, 0, byName[models.CategoryEducation])
}
