package vehicles

import (
	"context"

	"github.com/google/uuid"

	"github.com/bryanwahyu/engine-checkup/internal/application"
	domain "github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
)

// Service registers and looks up vehicles for an owner.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

func (s *Service) Register(ctx context.Context, owner string, in domain.RegisterInput) (*domain.Vehicle, error) {
	now := s.Clock.Now()
	in, err := in.Normalize(now)
	if err != nil {
		return nil, err
	}
	v := &domain.Vehicle{
		ID:        domain.VehicleID(uuid.New().String()),
		OwnerID:   owner,
		Make:      in.Make,
		Model:     in.Model,
		Year:      in.Year,
		Nickname:  in.Nickname,
		CreatedAt: now,
	}
	if err := s.Repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, owner string, id domain.VehicleID) (*domain.Vehicle, error) {
	return s.Repo.Get(ctx, owner, id)
}

// List returns the owner's vehicles, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]*domain.Vehicle, error) {
	return s.Repo.ListByOwner(ctx, owner)
}
