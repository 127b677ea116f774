package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/hierarchy"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

const (
	errMenuParentNotFound = "MENU_PARENT_NOT_FOUND"
	errMenuHasChildren    = "MENU_HAS_CHILDREN"
)

var menuPathPattern = regexp.MustCompile(`^/[A-Za-z0-9/_.:-]*$`)

type MenuService struct {
	store  ports.MenuStore
	logger logrus.FieldLogger
}

func NewMenuService(store ports.MenuStore, logger logrus.FieldLogger) *MenuService {
	return &MenuService{store: store, logger: logging.OrNop(logger)}
}

// NodeFinder adapts the store to the hierarchy guard.
func (s *MenuService) NodeFinder() hierarchy.NodeFinder {
	return hierarchy.NodeFinderFunc(func(ctx context.Context, id int) (hierarchy.Node, error) {
		m, err := s.store.GetMenu(ctx, id)
		if err != nil {
			if errors.Is(err, ports.ErrMenuNotFound) {
				return nil, hierarchy.ErrNodeNotFound
			}
			return nil, err
		}
		return m, nil
	})
}

func (s *MenuService) List(ctx context.Context) ([]types.Menu, error) {
	menus, err := s.store.ListMenus(ctx)
	if err != nil {
		return nil, err
	}
	sortMenus(menus)
	return menus, nil
}

func (s *MenuService) Get(ctx context.Context, id int) (types.Menu, error) {
	return s.store.GetMenu(ctx, id)
}

// Tree nests menus under their parents. Menus whose parent is missing, and
// menus only reachable through a parent loop, are returned as roots.
func (s *MenuService) Tree(ctx context.Context) ([]*types.MenuTreeNode, error) {
	menus, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]types.Menu, len(menus))
	for _, m := range menus {
		byID[m.ID] = m
	}
	children := make(map[int][]types.Menu)
	var roots []types.Menu
	for _, m := range menus {
		if m.ParentID == nil {
			roots = append(roots, m)
			continue
		}
		if _, ok := byID[*m.ParentID]; !ok {
			roots = append(roots, m)
			continue
		}
		children[*m.ParentID] = append(children[*m.ParentID], m)
	}

	visited := make(map[int]bool, len(menus))
	var build func(m types.Menu) *types.MenuTreeNode
	build = func(m types.Menu) *types.MenuTreeNode {
		visited[m.ID] = true
		node := &types.MenuTreeNode{Menu: m, Children: make([]*types.MenuTreeNode, 0)}
		for _, c := range children[m.ID] {
			if visited[c.ID] {
				continue
			}
			node.Children = append(node.Children, build(c))
		}
		return node
	}

	out := make([]*types.MenuTreeNode, 0, len(roots))
	for _, m := range roots {
		out = append(out, build(m))
	}
	for _, m := range menus {
		if visited[m.ID] {
			continue
		}
		s.logger.WithField("menu_id", m.ID).Warn("menu is part of a parent loop; listed as root")
		out = append(out, build(m))
	}
	return out, nil
}

func (s *MenuService) Create(ctx context.Context, in types.MenuInput) (types.Menu, error) {
	in = normalizeMenuInput(in)
	if err := validateMenuInput(in); err != nil {
		return types.Menu{}, err
	}
	if err := s.checkParent(ctx, in.ParentID, nil); err != nil {
		return types.Menu{}, err
	}
	m, err := s.store.CreateMenu(ctx, in)
	if err != nil {
		return types.Menu{}, err
	}
	s.logger.WithField("menu_id", m.ID).Info("menu created")
	return m, nil
}

func (s *MenuService) Update(ctx context.Context, id int, in types.MenuInput) (types.Menu, error) {
	in = normalizeMenuInput(in)
	if err := validateMenuInput(in); err != nil {
		return types.Menu{}, err
	}
	if _, err := s.store.GetMenu(ctx, id); err != nil {
		return types.Menu{}, err
	}
	if err := s.checkParent(ctx, in.ParentID, &id); err != nil {
		return types.Menu{}, err
	}
	m, err := s.store.UpdateMenu(ctx, id, in)
	if err != nil {
		return types.Menu{}, err
	}
	s.logger.WithField("menu_id", id).Info("menu updated")
	return m, nil
}

func (s *MenuService) Delete(ctx context.Context, id int) error {
	if _, err := s.store.GetMenu(ctx, id); err != nil {
		return err
	}
	n, err := s.store.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.NewConflict(errMenuHasChildren)
	}
	if err := s.store.DeleteMenu(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("menu_id", id).Info("menu deleted")
	return nil
}

// Verify runs the cycle check for every stored parent link and returns the
// ids of menus whose ancestry loops.
func (s *MenuService) Verify(ctx context.Context) ([]int, error) {
	menus, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	finder := s.NodeFinder()
	var bad []int
	for _, m := range menus {
		id := m.ID
		err := hierarchy.ValidateNoCycle(ctx, finder, m.ParentID, &id)
		if err == nil {
			continue
		}
		if !hierarchy.IsCycle(err) {
			return nil, err
		}
		bad = append(bad, id)
	}
	return bad, nil
}

func (s *MenuService) checkParent(ctx context.Context, parentID *int, subjectID *int) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.store.GetMenu(ctx, *parentID); err != nil {
		if errors.Is(err, ports.ErrMenuNotFound) {
			return httperr.NewBadRequest(errMenuParentNotFound)
		}
		return err
	}
	if err := hierarchy.ValidateNoCycle(ctx, s.NodeFinder(), parentID, subjectID); err != nil {
		if hierarchy.IsCycle(err) {
			s.logger.WithFields(logrus.Fields{
				"parent_id":  *parentID,
				"subject_id": subjectID,
			}).Info("menu parent rejected")
		}
		return err
	}
	return nil
}

func normalizeMenuInput(in types.MenuInput) types.MenuInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Path = strings.TrimSpace(in.Path)
	in.Icon = strings.TrimSpace(in.Icon)
	return in
}

func validateMenuInput(in types.MenuInput) error {
	return validation.New().
		Field("name", in.Name, validation.Required(), validation.MaxLen(60)).
		Field("order", in.Order, validation.Between(0, 9999)).
		Field("parent_id", in.ParentID, validation.Between(1, math.MaxInt32)).
		Field("path", in.Path, validation.MaxLen(120), validation.Pattern(menuPathPattern, "must be an absolute route path")).
		Field("icon", in.Icon, validation.MaxLen(60)).
		Err()
}

func sortMenus(menus []types.Menu) {
	slices.SortFunc(menus, func(a, b types.Menu) int {
		pa, pb := parentKey(a.ParentID), parentKey(b.ParentID)
		if pa != pb {
			return pa - pb
		}
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return a.ID - b.ID
	})
}

func parentKey(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
