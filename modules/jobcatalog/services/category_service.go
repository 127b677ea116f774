package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

var categoryCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{1,10}$`)

type CategoryService struct {
	store  ports.CategoryStore
	logger logrus.FieldLogger
}

func NewCategoryService(store ports.CategoryStore, logger logrus.FieldLogger) *CategoryService {
	return &CategoryService{store: store, logger: logging.OrNop(logger)}
}

func (s *CategoryService) List(ctx context.Context, active *bool) ([]types.JobCategory, error) {
	return s.store.ListCategories(ctx, active)
}

func (s *CategoryService) Get(ctx context.Context, code string) (types.JobCategory, error) {
	return s.store.GetCategory(ctx, normalizeCode(code))
}

func (s *CategoryService) Create(ctx context.Context, in types.JobCategoryInput) (types.JobCategory, error) {
	c, err := parseCategory(in)
	if err != nil {
		return types.JobCategory{}, err
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return types.JobCategory{}, err
	}
	s.logger.WithField("category", c.Code).Info("job category created")
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, code string, in types.JobCategoryInput) (types.JobCategory, error) {
	in.Code = code
	c, err := parseCategory(in)
	if err != nil {
		return types.JobCategory{}, err
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return types.JobCategory{}, err
	}
	s.logger.WithField("category", c.Code).Info("job category updated")
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, code string) error {
	code = normalizeCode(code)
	if err := s.store.DeleteCategory(ctx, code); err != nil {
		return err
	}
	s.logger.WithField("category", code).Info("job category deleted")
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func parseCategory(in types.JobCategoryInput) (types.JobCategory, error) {
	c := types.JobCategory{
		Code:   normalizeCode(in.Code),
		Name:   strings.TrimSpace(in.Name),
		Level:  in.Level,
		Active: in.Active == nil || *in.Active,
	}
	return c, validation.New().
		Field("code", c.Code, validation.Required(), validation.Pattern(categoryCodePattern, "must be 1 to 10 of A-Z, 0-9, _ or -")).
		Field("name", c.Name, validation.Required(), validation.MaxLen(80)).
		Field("level", c.Level, validation.Between(1, 99)).
		Err()
}
