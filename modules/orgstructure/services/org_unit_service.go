package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/modules/orgstructure/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/orgstructure/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

var orgCodePattern = regexp.MustCompile(`^[A-Z0-9]{1,6}$`)

type OrgUnitService struct {
	store  ports.OrgUnitStore
	logger logrus.FieldLogger
}

func NewOrgUnitService(store ports.OrgUnitStore, logger logrus.FieldLogger) *OrgUnitService {
	return &OrgUnitService{store: store, logger: logging.OrNop(logger)}
}

func (s *OrgUnitService) List(ctx context.Context) ([]types.OrgUnit, error) {
	return s.store.ListOrgUnits(ctx)
}

func (s *OrgUnitService) Get(ctx context.Context, code string) (types.OrgUnit, error) {
	return s.store.GetOrgUnit(ctx, normalizeCode(code))
}

func (s *OrgUnitService) Create(ctx context.Context, in types.OrgUnitInput) (types.OrgUnit, error) {
	u, err := parseOrgUnit(in)
	if err != nil {
		return types.OrgUnit{}, err
	}
	if err := s.store.CreateOrgUnit(ctx, u); err != nil {
		return types.OrgUnit{}, err
	}
	s.logger.WithField("org0", u.Code).Info("org unit created")
	return u, nil
}

func (s *OrgUnitService) Update(ctx context.Context, code string, in types.OrgUnitInput) (types.OrgUnit, error) {
	in.Code = code
	u, err := parseOrgUnit(in)
	if err != nil {
		return types.OrgUnit{}, err
	}
	if err := s.store.UpdateOrgUnit(ctx, u); err != nil {
		return types.OrgUnit{}, err
	}
	s.logger.WithField("org0", u.Code).Info("org unit updated")
	return u, nil
}

// Delete refuses units still referenced by org-personnel history.
func (s *OrgUnitService) Delete(ctx context.Context, code string) error {
	code = normalizeCode(code)
	if _, err := s.store.GetOrgUnit(ctx, code); err != nil {
		return err
	}
	n, err := s.store.CountPersonnelRefs(ctx, code)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.WithFields(logrus.Fields{"org0": code, "refs": n}).Info("org unit delete refused")
		return ports.ErrOrgUnitInUse
	}
	if err := s.store.DeleteOrgUnit(ctx, code); err != nil {
		return err
	}
	s.logger.WithField("org0", code).Info("org unit deleted")
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func parseOrgUnit(in types.OrgUnitInput) (types.OrgUnit, error) {
	u := types.OrgUnit{
		Code:   normalizeCode(in.Code),
		Name:   strings.TrimSpace(in.Name),
		Active: in.Active == nil || *in.Active,
	}
	return u, validation.New().
		Field("code", u.Code, validation.Required(), validation.Pattern(orgCodePattern, "must be 1 to 6 upper-case letters or digits")).
		Field("name", u.Name, validation.Required(), validation.MaxLen(80)).
		Err()
}
