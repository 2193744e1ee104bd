package services

import (
	"context"
	"errors"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// TaxonomyService manages categories and tags.
type TaxonomyService struct {
	categories repositories.CategoryRepository
	tags       repositories.TagRepository
}

// NewTaxonomyService creates a TaxonomyService.
func NewTaxonomyService(categories repositories.CategoryRepository, tags repositories.TagRepository) *TaxonomyService {
	return &TaxonomyService{categories: categories, tags: tags}
}

// CreateCategory stores a new category with a slug derived from the name
// when none is given.
func (s *TaxonomyService) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*models.Category, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	category := &models.Category{
		Name:        req.Name,
		Slug:        s.slugOrDerive(req.Slug, req.Name),
		Description: req.Description,
	}
	err := s.categories.Create(ctx, category)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, NewValidationError("slug", "slug is already in use")
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category or changes its slug.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id uint, req *dto.CategoryRequest) (*models.Category, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	category.Name = req.Name
	category.Slug = s.slugOrDerive(req.Slug, req.Name)
	category.Description = req.Description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Article links are detached by the join
// table constraints.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.categories.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListCategories returns all categories ordered by name.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// CreateTag stores a new tag.
func (s *TaxonomyService) CreateTag(ctx context.Context, req *dto.TagRequest) (*models.Tag, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	tag := &models.Tag{
		Name: req.Name,
		Slug: s.slugOrDerive(req.Slug, req.Name),
	}
	err := s.tags.Create(ctx, tag)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, NewValidationError("slug", "slug is already in use")
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag renames a tag or changes its slug.
func (s *TaxonomyService) UpdateTag(ctx context.Context, id uint, req *dto.TagRequest) (*models.Tag, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrNotFound
	}
	tag.Name = req.Name
	tag.Slug = s.slugOrDerive(req.Slug, req.Name)
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag.
func (s *TaxonomyService) DeleteTag(ctx context.Context, id uint) error {
	err := s.tags.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListTags returns all tags ordered by name.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TaxonomyService) slugOrDerive(slug, name string) string {
	if slug != "" {
		return utils.Slugify(slug)
	}
	return utils.Slugify(name)
}
