package mocks

import (
	"context"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
)

// MockCategoryRepository is an in-memory CategoryRepository.
type MockCategoryRepository struct {
	Categories map[uint]*models.Category
	NextID     uint
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[uint]*models.Category), NextID: 1}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	for _, c := range m.Categories {
		if c.Slug == category.Slug {
			return repositories.ErrDuplicate
		}
	}
	category.ID = m.NextID
	m.NextID++
	cp := *category
	m.Categories[category.ID] = &cp
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	cp := *category
	m.Categories[category.ID] = &cp
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	if _, ok := m.Categories[id]; !ok {
		return repositories.ErrNoRows
	}
	delete(m.Categories, id)
	return nil
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.Categories {
		out = append(out, *c)
	}
	return out, nil
}

// MockTagRepository is an in-memory TagRepository.
type MockTagRepository struct {
	Tags   map[uint]*models.Tag
	NextID uint
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{Tags: make(map[uint]*models.Tag), NextID: 1}
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	for _, t := range m.Tags {
		if t.Slug == tag.Slug {
			return repositories.ErrDuplicate
		}
	}
	tag.ID = m.NextID
	m.NextID++
	cp := *tag
	m.Tags[tag.ID] = &cp
	return nil
}

func (m *MockTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	cp := *tag
	m.Tags[tag.ID] = &cp
	return nil
}

func (m *MockTagRepository) Delete(ctx context.Context, id uint) error {
	if _, ok := m.Tags[id]; !ok {
		return repositories.ErrNoRows
	}
	delete(m.Tags, id)
	return nil
}

func (m *MockTagRepository) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	t, ok := m.Tags[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *MockTagRepository) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	for _, t := range m.Tags {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	for _, t := range m.Tags {
		out = append(out, *t)
	}
	return out, nil
}

// MockMediaRepository is an in-memory MediaRepository.
type MockMediaRepository struct {
	Files  map[uint]*models.Media
	NextID uint
}

func NewMockMediaRepository() *MockMediaRepository {
	return &MockMediaRepository{Files: make(map[uint]*models.Media), NextID: 1}
}

func (m *MockMediaRepository) Create(ctx context.Context, media *models.Media) error {
	media.ID = m.NextID
	m.NextID++
	cp := *media
	m.Files[media.ID] = &cp
	return nil
}

func (m *MockMediaRepository) FindByID(ctx context.Context, id uint) (*models.Media, error) {
	f, ok := m.Files[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (m *MockMediaRepository) List(ctx context.Context, uploadedBy uint, page dto.Pagination) ([]models.Media, int64, error) {
	var out []models.Media
	for _, f := range m.Files {
		if uploadedBy != 0 && f.UploadedBy != uploadedBy {
			continue
		}
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

func (m *MockMediaRepository) Delete(ctx context.Context, id uint) error {
	if _, ok := m.Files[id]; !ok {
		return repositories.ErrNoRows
	}
	delete(m.Files, id)
	return nil
}
