package vehicles

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("vehicle not found")
	ErrInvalid  = errors.New("invalid vehicle")
)

// Repository port for vehicles
type Repository interface {
	Insert(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, owner string, id VehicleID) (*Vehicle, error)
	ListByOwner(ctx context.Context, owner string) ([]*Vehicle, error)
}
