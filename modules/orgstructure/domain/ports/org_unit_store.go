package ports

import (
	"context"

	"github.com/jacksonlee411/orgcatalog/modules/orgstructure/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

var (
	ErrOrgUnitNotFound = httperr.NewNotFound("ORG_UNIT_NOT_FOUND")
	ErrOrgUnitExists   = httperr.NewConflict("ORG_UNIT_ALREADY_EXISTS")
	ErrOrgUnitInUse    = httperr.NewConflict("ORG_UNIT_IN_USE")
)

type OrgUnitStore interface {
	ListOrgUnits(ctx context.Context) ([]types.OrgUnit, error)
	GetOrgUnit(ctx context.Context, code string) (types.OrgUnit, error)
	CreateOrgUnit(ctx context.Context, u types.OrgUnit) error
	UpdateOrgUnit(ctx context.Context, u types.OrgUnit) error
	DeleteOrgUnit(ctx context.Context, code string) error
	CountPersonnelRefs(ctx context.Context, code string) (int, error)
}
