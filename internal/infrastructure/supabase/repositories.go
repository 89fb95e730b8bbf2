package supabase

import (
	"context"
	"time"

	supa "github.com/nedpals/supabase-go"

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

type productRow struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	CategoryID      *string   `json:"category_id"`
	Status          string    `json:"status"`
	LocationID      *string   `json:"location_id"`
	SerialNumber    string    `json:"serial_number"`
	Barcode         string    `json:"barcode"`
	Quantity        int       `json:"quantity"`
	OpeningQuantity int       `json:"opening_quantity"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toProductRow(p *entity.Product) productRow {
	return productRow{
		ID: p.ID, Name: p.Name, Brand: p.Brand, Model: p.Model,
		CategoryID: nullable(p.CategoryID), Status: p.Status, LocationID: nullable(p.LocationID),
		SerialNumber: p.SerialNumber, Barcode: p.Barcode, Quantity: p.Quantity,
		OpeningQuantity: p.OpeningQuantity, Description: p.Description,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func (r productRow) entity() *entity.Product {
	return &entity.Product{
		ID: r.ID, Name: r.Name, Brand: r.Brand, Model: r.Model,
		CategoryID: deref(r.CategoryID), Status: r.Status, LocationID: deref(r.LocationID),
		SerialNumber: r.SerialNumber, Barcode: r.Barcode, Quantity: r.Quantity,
		OpeningQuantity: r.OpeningQuantity, Description: r.Description,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// ProductRepo productos vía PostgREST.
type ProductRepo struct {
	client *supa.Client
}

// NewProductRepository construye el repositorio.
func NewProductRepository(client *supa.Client) *ProductRepo {
	return &ProductRepo{client: client}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	err := r.client.DB.From(tableProducts).Insert(toProductRow(p)).ExecuteWithContext(ctx, nil)
	return wrap("insert product", err, domain.ErrDuplicate)
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, "id", id)
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, code string) (*entity.Product, error) {
	return r.findOne(ctx, "barcode", code)
}

func (r *ProductRepo) findOne(ctx context.Context, column, value string) (*entity.Product, error) {
	var rows []productRow
	if err := r.client.DB.From(tableProducts).Select("*").Eq(column, value).ExecuteWithContext(ctx, &rows); err != nil {
		return nil, wrap("get product", err, nil)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].entity(), nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	body := map[string]interface{}{
		"name":          p.Name,
		"brand":         p.Brand,
		"model":         p.Model,
		"category_id":   nullable(p.CategoryID),
		"status":        p.Status,
		"location_id":   nullable(p.LocationID),
		"serial_number": p.SerialNumber,
		"barcode":       p.Barcode,
		"quantity":      p.Quantity,
		"description":   p.Description,
		"updated_at":    p.UpdatedAt,
	}
	err := r.client.DB.From(tableProducts).Update(body).Eq("id", p.ID).ExecuteWithContext(ctx, nil)
	return wrap("update product", err, domain.ErrDuplicate)
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id string, quantity int, status, locationID string) error {
	body := map[string]interface{}{
		"quantity":    quantity,
		"status":      status,
		"location_id": nullable(locationID),
		"updated_at":  time.Now().UTC(),
	}
	err := r.client.DB.From(tableProducts).Update(body).Eq("id", id).ExecuteWithContext(ctx, nil)
	return wrap("update stock", err, nil)
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	var rows []productRow
	if err := r.client.DB.From(tableProducts).Select("*").ExecuteWithContext(ctx, &rows); err != nil {
		return nil, wrap("list products", err, nil)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	err := r.client.DB.From(tableProducts).Delete().Eq("id", id).ExecuteWithContext(ctx, nil)
	return wrap("delete product", err, nil)
}

type movementRow struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	LocationID  *string   `json:"location_id"`
	UserID      *string   `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r movementRow) entity() *entity.Movement {
	return &entity.Movement{
		ID: r.ID, ProductID: r.ProductID, Type: r.Type, Quantity: r.Quantity,
		Description: r.Description, LocationID: deref(r.LocationID), UserID: deref(r.UserID),
		CreatedAt: r.CreatedAt,
	}
}

// MovementRepo movimientos vía PostgREST.
type MovementRepo struct {
	client *supa.Client
}

// NewMovementRepository construye el repositorio.
func NewMovementRepository(client *supa.Client) *MovementRepo {
	return &MovementRepo{client: client}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	row := movementRow{
		ID: m.ID, ProductID: m.ProductID, Type: m.Type, Quantity: m.Quantity,
		Description: m.Description, LocationID: nullable(m.LocationID), UserID: nullable(m.UserID),
		CreatedAt: m.CreatedAt,
	}
	return wrap("insert movement", r.client.DB.From(tableMovements).Insert(row).ExecuteWithContext(ctx, nil), nil)
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var rows []movementRow
	if err := r.client.DB.From(tableMovements).Select("*").Eq("id", id).ExecuteWithContext(ctx, &rows); err != nil {
		return nil, wrap("get movement", err, nil)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].entity(), nil
}

func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	body := map[string]interface{}{
		"type":        m.Type,
		"quantity":    m.Quantity,
		"description": m.Description,
		"location_id": nullable(m.LocationID),
	}
	return wrap("update movement", r.client.DB.From(tableMovements).Update(body).Eq("id", m.ID).ExecuteWithContext(ctx, nil), nil)
}

func (r *MovementRepo) List(ctx context.Context) ([]*entity.Movement, error) {
	var rows []movementRow
	if err := r.client.DB.From(tableMovements).Select("*").ExecuteWithContext(ctx, &rows); err != nil {
		return nil, wrap("list movements", err, nil)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out, nil
}

func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	return wrap("delete movement", r.client.DB.From(tableMovements).Delete().Eq("id", id).ExecuteWithContext(ctx, nil), nil)
}

func (r *MovementRepo) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return wrap("delete movements", r.client.DB.From(tableMovements).Delete().In("id", ids).ExecuteWithContext(ctx, nil), nil)
}

func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID string) error {
	err := r.client.DB.From(tableMovements).Delete().Eq("product_id", productID).ExecuteWithContext(ctx, nil)
	return wrap("delete product movements", err, nil)
}

// CategoryRepo categorías vía PostgREST.
type CategoryRepo struct {
	client *supa.Client
}

// NewCategoryRepository construye el repositorio.
func NewCategoryRepository(client *supa.Client) *CategoryRepo {
	return &CategoryRepo{client: client}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	row := map[string]interface{}{"id": c.ID, "name": c.Name, "created_at": c.CreatedAt}
	return wrap("insert category", r.client.DB.From(tableCategories).Insert(row).ExecuteWithContext(ctx, nil), domain.ErrDuplicate)
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	var raw []struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := r.client.DB.From(tableCategories).Select("*").ExecuteWithContext(ctx, &raw); err != nil {
		return nil, wrap("list categories", err, nil)
	}
	out := make([]*entity.Category, 0, len(raw))
	for _, c := range raw {
		out = append(out, &entity.Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return wrap("delete category", r.client.DB.From(tableCategories).Delete().Eq("id", id).ExecuteWithContext(ctx, nil), nil)
}

// LocationRepo ubicaciones vía PostgREST.
type LocationRepo struct {
	client *supa.Client
}

// NewLocationRepository construye el repositorio.
func NewLocationRepository(client *supa.Client) *LocationRepo {
	return &LocationRepo{client: client}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	row := map[string]interface{}{"id": l.ID, "name": l.Name, "description": l.Description, "created_at": l.CreatedAt}
	return wrap("insert location", r.client.DB.From(tableLocations).Insert(row).ExecuteWithContext(ctx, nil), domain.ErrDuplicate)
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	var raw []struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description *string   `json:"description"`
		CreatedAt   time.Time `json:"created_at"`
	}
	if err := r.client.DB.From(tableLocations).Select("*").ExecuteWithContext(ctx, &raw); err != nil {
		return nil, wrap("list locations", err, nil)
	}
	out := make([]*entity.Location, 0, len(raw))
	for _, l := range raw {
		out = append(out, &entity.Location{ID: l.ID, Name: l.Name, Description: deref(l.Description), CreatedAt: l.CreatedAt})
	}
	return out, nil
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	return wrap("delete location", r.client.DB.From(tableLocations).Delete().Eq("id", id).ExecuteWithContext(ctx, nil), nil)
}

type userRow struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r userRow) entity() *entity.User {
	return &entity.User{
		ID: r.ID, Username: r.Username, PasswordHash: r.PasswordHash, Role: r.Role,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// UserRepo usuarios vía PostgREST.
type UserRepo struct {
	client *supa.Client
}

// NewUserRepository construye el repositorio.
func NewUserRepository(client *supa.Client) *UserRepo {
	return &UserRepo{client: client}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	row := userRow{
		ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash, Role: u.Role,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
	return wrap("insert user", r.client.DB.From(tableUsers).Insert(row).ExecuteWithContext(ctx, nil), domain.ErrUsernameTaken)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepo) findOne(ctx context.Context, column, value string) (*entity.User, error) {
	var rows []userRow
	if err := r.client.DB.From(tableUsers).Select("*").Eq(column, value).ExecuteWithContext(ctx, &rows); err != nil {
		return nil, wrap("get user", err, nil)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].entity(), nil
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	body := map[string]interface{}{
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
		"updated_at":    u.UpdatedAt,
	}
	err := r.client.DB.From(tableUsers).Update(body).Eq("id", u.ID).ExecuteWithContext(ctx, nil)
	return wrap("update user", err, domain.ErrUsernameTaken)
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var rows []userRow
	if err := r.client.DB.From(tableUsers).Select("*").ExecuteWithContext(ctx, &rows); err != nil {
		return nil, wrap("list users", err, nil)
	}
	out := make([]*entity.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	if err := r.client.DB.From(tableUsers).Select("id").ExecuteWithContext(ctx, &rows); err != nil {
		return 0, wrap("count users", err, nil)
	}
	return len(rows), nil
}
