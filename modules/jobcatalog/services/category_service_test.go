package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

type storeStub struct {
	ports.CategoryStore
	created []types.JobCategory
	updated []types.JobCategory
}

func (s *storeStub) CreateCategory(_ context.Context, c types.JobCategory) error {
	s.created = append(s.created, c)
	return nil
}

func (s *storeStub) UpdateCategory(_ context.Context, c types.JobCategory) error {
	s.updated = append(s.updated, c)
	return nil
}

func TestCategoryService_Create(t *testing.T) {
	store := &storeStub{}
	inactive := false
	c, err := NewCategoryService(store, nil).Create(context.Background(), types.JobCategoryInput{
		Code: " op-1 ", Name: "Operativo", Level: 4, Active: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, types.JobCategory{Code: "OP-1", Name: "Operativo", Level: 4}, c)
	assert.Len(t, store.created, 1)
}

func TestCategoryService_Validation(t *testing.T) {
	_, err := NewCategoryService(&storeStub{}, nil).Create(context.Background(), types.JobCategoryInput{
		Code: "WAY_TOO_LONG_CODE", Name: "x", Level: 100,
	})
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	fields := errs.Fields()
	assert.Contains(t, fields, "code")
	assert.Contains(t, fields, "level")
	assert.NotContains(t, fields, "name")
}

func TestCategoryService_UpdateUsesPathCode(t *testing.T) {
	store := &storeStub{}
	_, err := NewCategoryService(store, nil).Update(context.Background(), "adm", types.JobCategoryInput{Code: "IGNORED", Name: "Administrativo", Level: 2})
	require.NoError(t, err)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "ADM", store.updated[0].Code)
	assert.True(t, store.updated[0].Active)
}
