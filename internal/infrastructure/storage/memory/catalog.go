package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
)

// CentreRepo implements centre.Repository.
type CentreRepo struct{ s *Store }

func (r *CentreRepo) Create(ctx context.Context, c *centre.Centre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.centres {
		if other.Name == c.Name {
			return apperror.NewDuplicate("centre", "name", c.Name)
		}
	}
	r.s.centres[c.ID] = *c
	return nil
}

func (r *CentreRepo) GetByID(ctx context.Context, centreID id.ID) (*centre.Centre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.centres[centreID]
	if !ok {
		return nil, apperror.NewNotFound("centre", centreID.String())
	}
	return &c, nil
}

func (r *CentreRepo) GetByName(ctx context.Context, name string) (*centre.Centre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.centres {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("centre", name)
}

func (r *CentreRepo) List(ctx context.Context, filter centre.ListFilter) ([]*centre.Centre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*centre.Centre, 0, len(r.s.centres))
	for _, c := range r.s.centres {
		if filter.IDs != nil && !slices.Contains(filter.IDs, c.ID) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a centre and cascades like the database schema: its
// statements go, its users lose their centre.
func (r *CentreRepo) Delete(ctx context.Context, centreID id.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.centres[centreID]; !ok {
		return apperror.NewNotFound("centre", centreID.String())
	}
	delete(r.s.centres, centreID)
	for sid, st := range r.s.statements {
		if st.CentreID == centreID {
			delete(r.s.statements, sid)
		}
	}
	for uid, u := range r.s.users {
		if u.CentreID != nil && *u.CentreID == centreID {
			u.CentreID = nil
			r.s.users[uid] = u
		}
	}
	return nil
}

// ItemRepo implements item.Repository.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.items {
		if other.Code == it.Code {
			return apperror.NewDuplicate("item", "code", it.Code)
		}
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return &it, nil
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, it := range r.s.items {
		if it.Code == code {
			return &it, nil
		}
	}
	return nil, apperror.NewNotFound("item", code)
}

func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) ([]*item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(it *item.Item) bool {
		return len(filter.IDs) == 0 || slices.Contains(filter.IDs, it.ID)
	}), nil
}

func (r *ItemRepo) FindByNameFold(ctx context.Context, name string) (*item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.sorted(func(it *item.Item) bool { return strings.EqualFold(it.Name, name) })
	if len(found) == 0 {
		return nil, apperror.NewNotFound("item", name)
	}
	return found[0], nil
}

func (r *ItemRepo) FindByCodeContains(ctx context.Context, fragment string) (*item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	frag := strings.ToLower(fragment)
	found := r.sorted(func(it *item.Item) bool { return strings.Contains(strings.ToLower(it.Code), frag) })
	if len(found) == 0 {
		return nil, apperror.NewNotFound("item", fragment)
	}
	return found[0], nil
}

// sorted returns copies of the items matching keep, ordered by name. Callers hold the lock.
func (r *ItemRepo) sorted(keep func(*item.Item) bool) []*item.Item {
	out := make([]*item.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if keep(&it) {
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
