package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/mocks"
	"github.com/mubbi/blogapi/services"
)

func newTaxonomyFixture(t *testing.T) (*services.TaxonomyService, *mocks.MockCategoryRepository, *mocks.MockTagRepository) {
	t.Helper()
	categories := mocks.NewMockCategoryRepository()
	tags := mocks.NewMockTagRepository()
	return services.NewTaxonomyService(categories, tags), categories, tags
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	svc, _, _ := newTaxonomyFixture(t)

	category, err := svc.CreateCategory(context.Background(), &dto.CategoryRequest{Name: "Cloud Computing"})
	require.NoError(t, err)
	assert.Equal(t, "cloud-computing", category.Slug)
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	svc, _, _ := newTaxonomyFixture(t)

	_, err := svc.CreateCategory(context.Background(), &dto.CategoryRequest{Name: "Go"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(context.Background(), &dto.CategoryRequest{Name: "Rust", Slug: "go"})
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "slug")
}

func TestUpdateCategoryUnknown(t *testing.T) {
	svc, _, _ := newTaxonomyFixture(t)
	_, err := svc.UpdateCategory(context.Background(), 99, &dto.CategoryRequest{Name: "Renamed"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	svc, categories, _ := newTaxonomyFixture(t)

	category, err := svc.CreateCategory(context.Background(), &dto.CategoryRequest{Name: "Temp"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(context.Background(), category.ID))
	assert.Empty(t, categories.Categories)

	err = svc.DeleteCategory(context.Background(), category.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateTagExplicitSlugIsNormalized(t *testing.T) {
	svc, _, _ := newTaxonomyFixture(t)

	tag, err := svc.CreateTag(context.Background(), &dto.TagRequest{Name: "gRPC", Slug: "Remote Procedure Calls"})
	require.NoError(t, err)
	assert.Equal(t, "remote-procedure-calls", tag.Slug)
}

func TestUpdateTagRename(t *testing.T) {
	svc, _, _ := newTaxonomyFixture(t)

	tag, err := svc.CreateTag(context.Background(), &dto.TagRequest{Name: "Kubernetes"})
	require.NoError(t, err)

	renamed, err := svc.UpdateTag(context.Background(), tag.ID, &dto.TagRequest{Name: "K8s"})
	require.NoError(t, err)
	assert.Equal(t, "K8s", renamed.Name)
	assert.Equal(t, "k8s", renamed.Slug)
}

func TestCreateTagValidation(t *testing.T) {
	svc, _, _ := newTaxonomyFixture(t)
	_, err := svc.CreateTag(context.Background(), &dto.TagRequest{})
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
}
