package ports

import (
	"context"

	"github.com/jacksonlee411/orgcatalog/modules/personnel/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

var (
	ErrAfiliadoNotFound  = httperr.NewNotFound("AFILIADO_NOT_FOUND")
	ErrAfiliadoExists    = httperr.NewConflict("AFILIADO_ALREADY_EXISTS")
	ErrAfiliadoInUse     = httperr.NewConflict("AFILIADO_IN_USE")
	ErrOrgRecordNotFound = httperr.NewNotFound("ORG_RECORD_NOT_FOUND")
)

type AfiliadoStore interface {
	ListAfiliados(ctx context.Context, f types.AfiliadoFilter) ([]types.Afiliado, error)
	GetAfiliado(ctx context.Context, num int) (types.Afiliado, error)
	CreateAfiliado(ctx context.Context, a types.Afiliado) error
	UpdateAfiliado(ctx context.Context, a types.Afiliado) error
	DeleteAfiliado(ctx context.Context, num int) error
}

// OrgHistoryStore is the record source for current-assignment lookups.
type OrgHistoryStore interface {
	ListOrgHistory(ctx context.Context, num int) ([]types.OrgRecord, error)
	ListOrgRoster(ctx context.Context, f types.OrgFilter) ([]types.RosterEntry, error)
}
