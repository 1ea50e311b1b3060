package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
)

type VehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) *VehicleRepository { return &VehicleRepository{db: db} }

func (r *VehicleRepository) Insert(ctx context.Context, v *domain.Vehicle) error {
	const q = `
INSERT INTO vehicles (id, owner_id, make, model, year, nickname, created_at)
VALUES (?,?,?,?,?,?,?);`
	created := v.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, v.ID, stringOrDash(v.OwnerID), v.Make, v.Model, v.Year, v.Nickname, created)
	return err
}

// Get by ID + Owner
func (r *VehicleRepository) Get(ctx context.Context, owner string, id domain.VehicleID) (*domain.Vehicle, error) {
	const q = `
SELECT id, owner_id, make, model, year, nickname, created_at
FROM vehicles
WHERE owner_id=? AND id=? LIMIT 1;`
	var v domain.Vehicle
	err := r.db.QueryRowContext(ctx, q, owner, id).Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.Nickname, &v.CreatedAt)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &v, nil
}

func (r *VehicleRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Vehicle, error) {
	const q = `
SELECT id, owner_id, make, model, year, nickname, created_at
FROM vehicles
WHERE owner_id=?
ORDER BY created_at DESC, seq DESC;`
	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Vehicle{}
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.Nickname, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}
