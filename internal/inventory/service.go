// Package inventory wires the referential collections behind the CRUD
// surfaces: activities, supplies, tools, locations and users.  All five ride
// the same generic collection; this package only adds id/timestamp
// assignment, the location foreign-key checks and the delete guards that
// keep a referenced location alive.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jortegar/agroscout/internal/collection"
	"github.com/jortegar/agroscout/internal/model"
	"github.com/jortegar/agroscout/internal/store"
	"github.com/jortegar/agroscout/internal/utils"
)

// ErrUnknownLocation is returned when an item names a location id that does
// not exist.
var ErrUnknownLocation = errors.New("unknown location")

// Snapshot keys, one durable unit per collection.
const (
	keyActivities = "inventory:activities"
	keySupplies   = "inventory:supplies"
	keyTools      = "inventory:tools"
	keyLocations  = "inventory:locations"
	keyUsers      = "inventory:users"
)

// Service bundles the five collections.  Locations are guarded: they cannot
// be deleted while a supply, tool or user still points at them.
type Service struct {
	Activities *collection.Collection[model.Activity]
	Supplies   *collection.Collection[model.Supply]
	Tools      *collection.Collection[model.Tool]
	Locations  *collection.Collection[model.Location]
	Users      *collection.Collection[model.User]

	bcryptCost int
}

// New constructs the collections on the given snapshot store and registers
// the referential guards.
func New(st store.SnapshotStore, bcryptCost int) *Service {
	s := &Service{
		Activities: collection.New[model.Activity](st, keyActivities),
		Supplies:   collection.New[model.Supply](st, keySupplies),
		Tools:      collection.New[model.Tool](st, keyTools),
		Locations:  collection.New[model.Location](st, keyLocations),
		Users:      collection.New[model.User](st, keyUsers),
		bcryptCost: bcryptCost,
	}
	s.Locations.BlockDeleteWhen(func(ctx context.Context, id string) (bool, error) {
		supplies, err := s.Supplies.List(ctx)
		if err != nil {
			return false, err
		}
		for _, it := range supplies {
			if it.LocationID == id {
				return true, nil
			}
		}
		return false, nil
	})
	s.Locations.BlockDeleteWhen(func(ctx context.Context, id string) (bool, error) {
		tools, err := s.Tools.List(ctx)
		if err != nil {
			return false, err
		}
		for _, it := range tools {
			if it.LocationID == id {
				return true, nil
			}
		}
		return false, nil
	})
	s.Locations.BlockDeleteWhen(func(ctx context.Context, id string) (bool, error) {
		users, err := s.Users.List(ctx)
		if err != nil {
			return false, err
		}
		for _, it := range users {
			if it.LocationID == id {
				return true, nil
			}
		}
		return false, nil
	})
	return s
}

// CreateLocation registers a new location.
func (s *Service) CreateLocation(ctx context.Context, name, area string) (model.Location, error) {
	loc := model.Location{
		ID:        uuid.NewString(),
		Name:      name,
		Area:      area,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.Locations.Add(ctx, loc); err != nil {
		return model.Location{}, err
	}
	return loc, nil
}

// CreateActivity registers a new field activity.
func (s *Service) CreateActivity(ctx context.Context, name string, date int64, notes string) (model.Activity, error) {
	act := model.Activity{
		ID:        uuid.NewString(),
		Name:      name,
		Date:      date,
		Notes:     notes,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.Activities.Add(ctx, act); err != nil {
		return model.Activity{}, err
	}
	return act, nil
}

// CreateSupply registers a new supply, validating the optional location.
func (s *Service) CreateSupply(ctx context.Context, name string, quantity int, unit, locationID string) (model.Supply, error) {
	if err := s.checkLocation(ctx, locationID); err != nil {
		return model.Supply{}, err
	}
	sup := model.Supply{
		ID:         uuid.NewString(),
		Name:       name,
		Quantity:   quantity,
		Unit:       unit,
		LocationID: locationID,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if err := s.Supplies.Add(ctx, sup); err != nil {
		return model.Supply{}, err
	}
	return sup, nil
}

// CreateTool registers a new tool, validating the optional location.
func (s *Service) CreateTool(ctx context.Context, name, serial, locationID string) (model.Tool, error) {
	if err := s.checkLocation(ctx, locationID); err != nil {
		return model.Tool{}, err
	}
	tool := model.Tool{
		ID:         uuid.NewString(),
		Name:       name,
		Serial:     serial,
		LocationID: locationID,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if err := s.Tools.Add(ctx, tool); err != nil {
		return model.Tool{}, err
	}
	return tool, nil
}

// CreateUser registers a scouting account.  Only the bcrypt hash of the
// password is stored.
func (s *Service) CreateUser(ctx context.Context, name, email, role, password, locationID string) (model.User, error) {
	if err := s.checkLocation(ctx, locationID); err != nil {
		return model.User{}, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		LocationID:   locationID,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := s.Users.Add(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpdateLocation replaces a stored location.
func (s *Service) UpdateLocation(ctx context.Context, loc model.Location) error {
	return s.Locations.Update(ctx, loc)
}

// UpdateActivity replaces a stored activity.
func (s *Service) UpdateActivity(ctx context.Context, act model.Activity) error {
	return s.Activities.Update(ctx, act)
}

// UpdateSupply replaces a stored supply, re-validating the location.
func (s *Service) UpdateSupply(ctx context.Context, sup model.Supply) error {
	if err := s.checkLocation(ctx, sup.LocationID); err != nil {
		return err
	}
	return s.Supplies.Update(ctx, sup)
}

// UpdateTool replaces a stored tool, re-validating the location.
func (s *Service) UpdateTool(ctx context.Context, tool model.Tool) error {
	if err := s.checkLocation(ctx, tool.LocationID); err != nil {
		return err
	}
	return s.Tools.Update(ctx, tool)
}

// UpdateUser replaces a stored user.  A non-empty newPassword is rehashed;
// otherwise the existing hash stays.
func (s *Service) UpdateUser(ctx context.Context, u model.User, newPassword string) error {
	if err := s.checkLocation(ctx, u.LocationID); err != nil {
		return err
	}
	if newPassword != "" {
		hash, err := utils.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	return s.Users.Update(ctx, u)
}

// checkLocation verifies that a non-empty location id exists.
func (s *Service) checkLocation(ctx context.Context, locationID string) error {
	if locationID == "" {
		return nil
	}
	if _, err := s.Locations.Get(ctx, locationID); err != nil {
		if errors.Is(err, collection.ErrItemNotFound) {
			return ErrUnknownLocation
		}
		return err
	}
	return nil
}
