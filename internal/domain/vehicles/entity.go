package vehicles

import (
	"fmt"
	"strings"
	"time"
)

// VehicleID identifier type
type VehicleID string

// Vehicle owned by one account
type Vehicle struct {
	ID        VehicleID `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year,omitempty"`
	Nickname  string    `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterInput is the user supplied part of a Vehicle.
type RegisterInput struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Nickname string `json:"nickname"`
}

// Normalize trims whitespace and checks required fields. Year is optional;
// when set it must fall between the first production car and next model year.
func (in RegisterInput) Normalize(now time.Time) (RegisterInput, error) {
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)
	in.Nickname = strings.TrimSpace(in.Nickname)
	if in.Make == "" {
		return in, fmt.Errorf("%w: make is required", ErrInvalid)
	}
	if in.Model == "" {
		return in, fmt.Errorf("%w: model is required", ErrInvalid)
	}
	if in.Year != 0 && (in.Year < 1886 || in.Year > now.Year()+1) {
		return in, fmt.Errorf("%w: year %d out of range", ErrInvalid, in.Year)
	}
	return in, nil
}
