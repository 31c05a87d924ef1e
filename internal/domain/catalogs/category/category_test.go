package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/category"
)

type fakeRepo struct {
	categories map[id.ID]*category.Category
	referenced map[id.ID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: make(map[id.ID]*category.Category),
		referenced: make(map[id.ID]bool),
	}
}

func (r *fakeRepo) Create(ctx context.Context, c *category.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	c, ok := r.categories[categoryID]
	if !ok {
		return nil, apperror.NewNotFound("category", categoryID.String())
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) FindByName(ctx context.Context, name string) (*category.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("category", name)
}

func (r *fakeRepo) Update(ctx context.Context, c *category.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, categoryID id.ID) error {
	delete(r.categories, categoryID)
	return nil
}

func (r *fakeRepo) HasProducts(ctx context.Context, categoryID id.ID) (bool, error) {
	return r.referenced[categoryID], nil
}

func (r *fakeRepo) List(ctx context.Context) ([]category.Category, error) {
	out := make([]category.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

type nopTx struct{}

func (nopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestCreate_UniqueName(t *testing.T) {
	svc := category.NewService(newFakeRepo(), nopTx{})

	_, err := svc.Create(context.Background(), "Stationery", "")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "Stationery", "dup")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)

	_, err = svc.Create(context.Background(), "", "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestDelete_BlockedWhenReferenced(t *testing.T) {
	repo := newFakeRepo()
	svc := category.NewService(repo, nopTx{})

	c, err := svc.Create(context.Background(), "Electronics", "")
	require.NoError(t, err)
	repo.referenced[c.ID] = true

	err = svc.Delete(context.Background(), c.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)

	repo.referenced[c.ID] = false
	require.NoError(t, svc.Delete(context.Background(), c.ID))
	_, err = svc.GetByID(context.Background(), c.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_RenameCollision(t *testing.T) {
	svc := category.NewService(newFakeRepo(), nopTx{})

	a, err := svc.Create(context.Background(), "Office", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Kitchen", "")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), a.ID, "Kitchen", "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)

	updated, err := svc.Update(context.Background(), a.ID, "Office Supplies", "desk things")
	require.NoError(t, err)
	assert.Equal(t, "Office Supplies", updated.Name)
}
