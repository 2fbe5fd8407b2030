package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// addressService implements AddressService. A user has at most one default
// address per type.
type addressService struct {
	tx        repository.TxBeginner
	addresses repository.AddressRepository
	logger    zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(tx repository.TxBeginner, addresses repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		tx:        tx,
		addresses: addresses,
		logger:    logger.With().Str("service", "address").Logger(),
	}
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	if addresses == nil {
		addresses = []model.Address{}
	}
	return addresses, nil
}

func (s *addressService) Create(ctx context.Context, userID uuid.UUID, in *model.AddressInput) (*model.Address, error) {
	now := time.Now().UTC()
	a := &model.Address{ID: uuid.New(), UserID: userID, CreatedAt: now}
	applyAddressInput(a, in, now)

	err := inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		if a.IsDefault {
			if err := s.addresses.ClearDefault(ctx, tx, userID, a.Type); err != nil {
				return err
			}
		}
		return s.addresses.Create(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *addressService) Update(ctx context.Context, userID, id uuid.UUID, in *model.AddressInput) (*model.Address, error) {
	a, err := s.addresses.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	if a == nil {
		return nil, model.ErrNotFound
	}
	applyAddressInput(a, in, time.Now().UTC())

	err = inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		if a.IsDefault {
			if err := s.addresses.ClearDefault(ctx, tx, userID, a.Type); err != nil {
				return err
			}
		}
		return s.addresses.Update(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func applyAddressInput(a *model.Address, in *model.AddressInput, now time.Time) {
	t := in.Type
	if t == "" {
		t = model.AddressShipping
	}
	a.Type = t
	a.FirstName = strings.TrimSpace(in.FirstName)
	a.LastName = strings.TrimSpace(in.LastName)
	a.Line1 = in.Line1
	a.Line2 = in.Line2
	a.City = in.City
	a.State = in.State
	a.PostalCode = in.PostalCode
	a.Country = strings.ToUpper(in.Country)
	a.Phone = in.Phone
	a.IsDefault = in.IsDefault
	a.UpdatedAt = now
}

func (s *addressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.addresses.Delete(ctx, userID, id)
}
