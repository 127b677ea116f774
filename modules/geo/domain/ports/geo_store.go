package ports

import (
	"context"

	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

var (
	ErrPostalCodeNotFound    = httperr.NewNotFound("POSTAL_CODE_NOT_FOUND")
	ErrPostalCodeExists      = httperr.NewConflict("POSTAL_CODE_ALREADY_EXISTS")
	ErrPostalCodeHasColonies = httperr.NewConflict("POSTAL_CODE_HAS_COLONIES")
	ErrColonyNotFound        = httperr.NewNotFound("COLONY_NOT_FOUND")
)

type GeoStore interface {
	ListPostalCodes(ctx context.Context, f types.PostalCodeFilter) ([]types.PostalCode, error)
	GetPostalCode(ctx context.Context, code string) (types.PostalCode, error)
	CreatePostalCode(ctx context.Context, p types.PostalCode) error
	UpdatePostalCode(ctx context.Context, p types.PostalCode) error
	DeletePostalCode(ctx context.Context, code string) error
	CountColonies(ctx context.Context, code string) (int, error)

	ListColonies(ctx context.Context, postalCode string) ([]types.Colony, error)
	GetColony(ctx context.Context, id int) (types.Colony, error)
	CreateColony(ctx context.Context, in types.ColonyInput) (types.Colony, error)
	UpdateColony(ctx context.Context, id int, in types.ColonyInput) (types.Colony, error)
	DeleteColony(ctx context.Context, id int) error
}
