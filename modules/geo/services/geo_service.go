package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

const (
	defaultColonyKind   = "Colonia"
	defaultPostalLimit  = 200
	maxPostalCodeResult = 2000
)

// errColonyPostalCodeMissing is returned when a colony write names an
// unknown postal code; the request is at fault, not the route.
var errColonyPostalCodeMissing = httperr.NewBadRequest("COLONY_POSTAL_CODE_NOT_FOUND")

type GeoService struct {
	store  ports.GeoStore
	logger logrus.FieldLogger
}

func NewGeoService(store ports.GeoStore, logger logrus.FieldLogger) *GeoService {
	return &GeoService{store: store, logger: logging.OrNop(logger)}
}

func (s *GeoService) ListPostalCodes(ctx context.Context, f types.PostalCodeFilter) ([]types.PostalCode, error) {
	f.State = strings.TrimSpace(f.State)
	if err := validation.New().Field("limit", f.Limit, validation.Between(0, maxPostalCodeResult)).Err(); err != nil {
		return nil, err
	}
	if f.Limit == 0 {
		f.Limit = defaultPostalLimit
	}
	return s.store.ListPostalCodes(ctx, f)
}

func (s *GeoService) GetPostalCode(ctx context.Context, code string) (types.PostalCode, error) {
	return s.store.GetPostalCode(ctx, strings.TrimSpace(code))
}

func (s *GeoService) CreatePostalCode(ctx context.Context, p types.PostalCode) (types.PostalCode, error) {
	p = normalizePostalCode(p)
	if err := validatePostalCode(p); err != nil {
		return types.PostalCode{}, err
	}
	if err := s.store.CreatePostalCode(ctx, p); err != nil {
		return types.PostalCode{}, err
	}
	s.logger.WithField("postal_code", p.Code).Info("postal code created")
	return p, nil
}

func (s *GeoService) UpdatePostalCode(ctx context.Context, code string, p types.PostalCode) (types.PostalCode, error) {
	p.Code = code
	p = normalizePostalCode(p)
	if err := validatePostalCode(p); err != nil {
		return types.PostalCode{}, err
	}
	if err := s.store.UpdatePostalCode(ctx, p); err != nil {
		return types.PostalCode{}, err
	}
	return p, nil
}

// DeletePostalCode refuses codes that still have colonies.
func (s *GeoService) DeletePostalCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	n, err := s.store.CountColonies(ctx, code)
	if err != nil {
		return err
	}
	if n > 0 {
		return ports.ErrPostalCodeHasColonies
	}
	if err := s.store.DeletePostalCode(ctx, code); err != nil {
		return err
	}
	s.logger.WithField("postal_code", code).Info("postal code deleted")
	return nil
}

func (s *GeoService) ListColonies(ctx context.Context, postalCode string) ([]types.Colony, error) {
	postalCode = strings.TrimSpace(postalCode)
	if _, err := s.store.GetPostalCode(ctx, postalCode); err != nil {
		return nil, err
	}
	return s.store.ListColonies(ctx, postalCode)
}

func (s *GeoService) GetColony(ctx context.Context, id int) (types.Colony, error) {
	return s.store.GetColony(ctx, id)
}

func (s *GeoService) CreateColony(ctx context.Context, in types.ColonyInput) (types.Colony, error) {
	in = normalizeColony(in)
	if err := validateColony(in); err != nil {
		return types.Colony{}, err
	}
	if err := s.requirePostalCode(ctx, in.PostalCode); err != nil {
		return types.Colony{}, err
	}
	c, err := s.store.CreateColony(ctx, in)
	if err != nil {
		return types.Colony{}, colonyWriteError(err)
	}
	s.logger.WithFields(logrus.Fields{"colony_id": c.ID, "postal_code": c.PostalCode}).Info("colony created")
	return c, nil
}

func (s *GeoService) UpdateColony(ctx context.Context, id int, in types.ColonyInput) (types.Colony, error) {
	in = normalizeColony(in)
	if err := validateColony(in); err != nil {
		return types.Colony{}, err
	}
	if err := s.requirePostalCode(ctx, in.PostalCode); err != nil {
		return types.Colony{}, err
	}
	c, err := s.store.UpdateColony(ctx, id, in)
	if err != nil {
		return types.Colony{}, colonyWriteError(err)
	}
	return c, nil
}

func (s *GeoService) DeleteColony(ctx context.Context, id int) error {
	return s.store.DeleteColony(ctx, id)
}

func (s *GeoService) requirePostalCode(ctx context.Context, code string) error {
	if _, err := s.store.GetPostalCode(ctx, code); err != nil {
		if errors.Is(err, ports.ErrPostalCodeNotFound) {
			return errColonyPostalCodeMissing
		}
		return err
	}
	return nil
}

// colonyWriteError covers a postal code removed between the check and the write.
func colonyWriteError(err error) error {
	if errors.Is(err, ports.ErrPostalCodeNotFound) {
		return errColonyPostalCodeMissing
	}
	return err
}

func normalizePostalCode(p types.PostalCode) types.PostalCode {
	p.Code = strings.TrimSpace(p.Code)
	p.State = strings.TrimSpace(p.State)
	p.Municipality = strings.TrimSpace(p.Municipality)
	return p
}

func validatePostalCode(p types.PostalCode) error {
	return validation.New().
		Field("code", p.Code, validation.Required(), validation.Tag("number,len=5", validation.KindFormat, "must be 5 digits")).
		Field("state", p.State, validation.Required(), validation.MaxLen(60)).
		Field("municipality", p.Municipality, validation.Required(), validation.MaxLen(80)).
		Err()
}

func normalizeColony(in types.ColonyInput) types.ColonyInput {
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.Name = strings.TrimSpace(in.Name)
	in.Kind = strings.TrimSpace(in.Kind)
	if in.Kind == "" {
		in.Kind = defaultColonyKind
	}
	return in
}

func validateColony(in types.ColonyInput) error {
	return validation.New().
		Field("postal_code", in.PostalCode, validation.Required(), validation.Tag("number,len=5", validation.KindFormat, "must be 5 digits")).
		Field("name", in.Name, validation.Required(), validation.MaxLen(100)).
		Field("kind", in.Kind, validation.MaxLen(40)).
		Err()
}
