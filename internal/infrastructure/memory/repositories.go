package memory

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ sc scope }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if err := r.sc.store.hit("products.Create"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	for _, existing := range t.products {
		if existing.Barcode == p.Barcode {
			return domain.ErrDuplicate
		}
	}
	t.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if err := r.sc.store.hit("products.GetByID"); err != nil {
		return nil, err
	}
	t, done := r.sc.open()
	defer done()
	p, ok := t.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByBarcode(_ context.Context, code string) (*entity.Product, error) {
	if err := r.sc.store.hit("products.GetByBarcode"); err != nil {
		return nil, err
	}
	t, done := r.sc.open()
	defer done()
	for _, p := range t.products {
		if p.Barcode == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if err := r.sc.store.hit("products.Update"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	if _, ok := t.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	t.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, quantity int, status, locationID string) error {
	if err := r.sc.store.hit("products.UpdateStock"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	p, ok := t.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	p.Status = status
	p.LocationID = locationID
	t.products[id] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	if err := r.sc.store.hit("products.List"); err != nil {
		return nil, err
	}
	t, done := r.sc.open()
	defer done()
	out := make([]*entity.Product, 0, len(t.products))
	for _, p := range t.products {
		out = append(out, &p)
	}
	return out, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	if err := r.sc.store.hit("products.Delete"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	delete(t.products, id)
	return nil
}

// MovementRepo movimientos en memoria.
type MovementRepo struct{ sc scope }

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	if err := r.sc.store.hit("movements.Create"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	t.movements[m.ID] = *m
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	if err := r.sc.store.hit("movements.GetByID"); err != nil {
		return nil, err
	}
	t, done := r.sc.open()
	defer done()
	m, ok := t.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepo) Update(_ context.Context, m *entity.Movement) error {
	if err := r.sc.store.hit("movements.Update"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	if _, ok := t.movements[m.ID]; !ok {
		return domain.ErrNotFound
	}
	t.movements[m.ID] = *m
	return nil
}

func (r *MovementRepo) List(_ context.Context) ([]*entity.Movement, error) {
	if err := r.sc.store.hit("movements.List"); err != nil {
		return nil, err
	}
	t, done := r.sc.open()
	defer done()
	out := make([]*entity.Movement, 0, len(t.movements))
	for _, m := range t.movements {
		out = append(out, &m)
	}
	return out, nil
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	if err := r.sc.store.hit("movements.Delete"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	delete(t.movements, id)
	return nil
}

func (r *MovementRepo) DeleteMany(_ context.Context, ids []string) error {
	if err := r.sc.store.hit("movements.DeleteMany"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	for _, id := range ids {
		delete(t.movements, id)
	}
	return nil
}

func (r *MovementRepo) DeleteByProduct(_ context.Context, productID string) error {
	if err := r.sc.store.hit("movements.DeleteByProduct"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	for id, m := range t.movements {
		if m.ProductID == productID {
			delete(t.movements, id)
		}
	}
	return nil
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ sc scope }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	if err := r.sc.store.hit("categories.Create"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	t.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	t, done := r.sc.open()
	defer done()
	out := make([]*entity.Category, 0, len(t.categories))
	for _, c := range t.categories {
		out = append(out, &c)
	}
	return out, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	if err := r.sc.store.hit("categories.Delete"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	delete(t.categories, id)
	return nil
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ sc scope }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	if err := r.sc.store.hit("locations.Create"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	t.locations[l.ID] = *l
	return nil
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	t, done := r.sc.open()
	defer done()
	out := make([]*entity.Location, 0, len(t.locations))
	for _, l := range t.locations {
		out = append(out, &l)
	}
	return out, nil
}

func (r *LocationRepo) Delete(_ context.Context, id string) error {
	if err := r.sc.store.hit("locations.Delete"); err != nil {
		return err
	}
	t, done := r.sc.open()
	defer done()
	delete(t.locations, id)
	return nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ sc scope }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	t, done := r.sc.open()
	defer done()
	for _, existing := range t.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	t.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	t, done := r.sc.open()
	defer done()
	u, ok := t.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	t, done := r.sc.open()
	defer done()
	for _, u := range t.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	t, done := r.sc.open()
	defer done()
	if _, ok := t.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, existing := range t.users {
		if existing.Username == u.Username && existing.ID != u.ID {
			return domain.ErrUsernameTaken
		}
	}
	t.users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	t, done := r.sc.open()
	defer done()
	out := make([]*entity.User, 0, len(t.users))
	for _, u := range t.users {
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	t, done := r.sc.open()
	defer done()
	return len(t.users), nil
}
