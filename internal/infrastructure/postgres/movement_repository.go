package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, type, quantity, description, location_id, user_id, created_at`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create guarda un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Description, nullable(m.LocationID), nullable(m.UserID), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Update reescribe tipo, cantidad, descripción y ubicación.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.Exec(ctx,
		`UPDATE movements SET type = $2, quantity = $3, description = $4, location_id = $5 WHERE id = $1`,
		m.ID, m.Type, m.Quantity, m.Description, nullable(m.LocationID),
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	return nil
}

// List lista todos los movimientos, más recientes primero.
func (r *MovementRepo) List(ctx context.Context) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM movements ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Delete elimina un movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// DeleteMany elimina varios movimientos en una sola sentencia.
func (r *MovementRepo) DeleteMany(ctx context.Context, ids []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todos los movimientos de un producto.
func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete movements by product: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var locationID, userID *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Description, &locationID, &userID, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.LocationID = deref(locationID)
	m.UserID = deref(userID)
	return &m, nil
}
