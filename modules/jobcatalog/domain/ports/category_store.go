package ports

import (
	"context"

	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

var (
	ErrCategoryNotFound = httperr.NewNotFound("JOB_CATEGORY_NOT_FOUND")
	ErrCategoryExists   = httperr.NewConflict("JOB_CATEGORY_ALREADY_EXISTS")
)

type CategoryStore interface {
	// ListCategories filters on the active flag when active is non-nil.
	ListCategories(ctx context.Context, active *bool) ([]types.JobCategory, error)
	GetCategory(ctx context.Context, code string) (types.JobCategory, error)
	CreateCategory(ctx context.Context, c types.JobCategory) error
	UpdateCategory(ctx context.Context, c types.JobCategory) error
	DeleteCategory(ctx context.Context, code string) error
}
