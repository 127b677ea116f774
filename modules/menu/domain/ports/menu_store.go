package ports

import (
	"context"

	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

var ErrMenuNotFound = httperr.NewNotFound("MENU_NOT_FOUND")

type MenuStore interface {
	ListMenus(ctx context.Context) ([]types.Menu, error)
	GetMenu(ctx context.Context, id int) (types.Menu, error)
	CreateMenu(ctx context.Context, in types.MenuInput) (types.Menu, error)
	UpdateMenu(ctx context.Context, id int, in types.MenuInput) (types.Menu, error)
	DeleteMenu(ctx context.Context, id int) error
	CountChildren(ctx context.Context, id int) (int, error)
}
