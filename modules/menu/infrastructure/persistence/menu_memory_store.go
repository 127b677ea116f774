package persistence

import (
	"context"
	"sync"

	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/types"
)

type MenuMemoryStore struct {
	mu     sync.RWMutex
	nextID int
	menus  map[int]types.Menu
}

func NewMenuMemoryStore(seed ...types.Menu) *MenuMemoryStore {
	s := &MenuMemoryStore{nextID: 1, menus: make(map[int]types.Menu, len(seed))}
	for _, m := range seed {
		s.menus[m.ID] = cloneMenu(m)
		if m.ID >= s.nextID {
			s.nextID = m.ID + 1
		}
	}
	return s
}

func (s *MenuMemoryStore) ListMenus(context.Context) ([]types.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Menu, 0, len(s.menus))
	for _, m := range s.menus {
		out = append(out, cloneMenu(m))
	}
	return out, nil
}

func (s *MenuMemoryStore) GetMenu(_ context.Context, id int) (types.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.menus[id]
	if !ok {
		return types.Menu{}, ports.ErrMenuNotFound
	}
	return cloneMenu(m), nil
}

func (s *MenuMemoryStore) CreateMenu(_ context.Context, in types.MenuInput) (types.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := menuFromInput(s.nextID, in)
	s.nextID++
	s.menus[m.ID] = m
	return cloneMenu(m), nil
}

func (s *MenuMemoryStore) UpdateMenu(_ context.Context, id int, in types.MenuInput) (types.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.menus[id]; !ok {
		return types.Menu{}, ports.ErrMenuNotFound
	}
	m := menuFromInput(id, in)
	s.menus[id] = m
	return cloneMenu(m), nil
}

func (s *MenuMemoryStore) DeleteMenu(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.menus[id]; !ok {
		return ports.ErrMenuNotFound
	}
	delete(s.menus, id)
	return nil
}

func (s *MenuMemoryStore) CountChildren(_ context.Context, id int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.menus {
		if m.ParentID != nil && *m.ParentID == id {
			n++
		}
	}
	return n, nil
}

func menuFromInput(id int, in types.MenuInput) types.Menu {
	return cloneMenu(types.Menu{
		ID:       id,
		Name:     in.Name,
		Order:    in.Order,
		ParentID: in.ParentID,
		Path:     in.Path,
		Icon:     in.Icon,
	})
}

func cloneMenu(m types.Menu) types.Menu {
	if m.ParentID != nil {
		p := *m.ParentID
		m.ParentID = &p
	}
	return m
}
