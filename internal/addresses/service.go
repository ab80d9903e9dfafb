package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
)

// Service defines the address book operations exposed to controllers.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, kind *enums.AddressKind) ([]models.Address, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

// NewService builds an address service with the required dependencies.
func NewService(repo Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Input captures the fields for creating an address.
type Input struct {
	Kind       enums.AddressKind
	FullName   string
	Phone      string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// UpdateInput carries optional address updates. Nil means unchanged.
type UpdateInput struct {
	FullName   *string
	Phone      *string
	Line1      *string
	Line2      *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

func (s *service) List(ctx context.Context, userID uuid.UUID, kind *enums.AddressKind) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if kind != nil && !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid address kind")
	}
	list, err := s.repo.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	return s.ownedAddress(ctx, userID, addressID)
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid address kind")
	}
	if err := validateRequiredFields(input); err != nil {
		return nil, err
	}

	makeDefault := input.IsDefault
	if !makeDefault {
		// The first address of a kind always becomes the default.
		if _, err := s.repo.FindDefault(ctx, userID, input.Kind); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default address")
			}
			makeDefault = true
		}
	}

	address := &models.Address{
		UserID:     userID,
		Kind:       input.Kind,
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
		IsDefault:  makeDefault,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if makeDefault {
			if err := repo.ClearDefault(ctx, userID, input.Kind); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		if _, err := repo.Create(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.Address, error) {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FullName != nil {
		if err := requireNonEmpty(*input.FullName, "full name"); err != nil {
			return nil, err
		}
		updates["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		if err := requireNonEmpty(*input.Phone, "phone"); err != nil {
			return nil, err
		}
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Line1 != nil {
		if err := requireNonEmpty(*input.Line1, "address line"); err != nil {
			return nil, err
		}
		updates["line1"] = strings.TrimSpace(*input.Line1)
	}
	if input.Line2 != nil {
		updates["line2"] = *input.Line2
	}
	if input.City != nil {
		if err := requireNonEmpty(*input.City, "city"); err != nil {
			return nil, err
		}
		updates["city"] = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		if err := requireNonEmpty(*input.State, "state"); err != nil {
			return nil, err
		}
		updates["state"] = strings.TrimSpace(*input.State)
	}
	if input.PostalCode != nil {
		if err := requireNonEmpty(*input.PostalCode, "postal code"); err != nil {
			return nil, err
		}
		updates["postal_code"] = strings.TrimSpace(*input.PostalCode)
	}
	if input.Country != nil {
		if err := requireNonEmpty(*input.Country, "country"); err != nil {
			return nil, err
		}
		updates["country"] = strings.TrimSpace(*input.Country)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, addressID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
	}
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload address")
	}
	return address, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	// Deleting the default leaves the kind without one until the user
	// promotes another address.
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if address.IsDefault {
		return address, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearDefault(ctx, userID, address.Kind); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
		}
		if err := repo.Update(ctx, addressID, map[string]any{"is_default": true}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	address, err = s.repo.FindByID(ctx, addressID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload address")
	}
	return address, nil
}

// ownedAddress loads an address and hides other users' entries behind a
// not-found error.
func (s *service) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}

func validateRequiredFields(input Input) error {
	checks := []struct {
		value string
		label string
	}{
		{input.FullName, "full name"},
		{input.Phone, "phone"},
		{input.Line1, "address line"},
		{input.City, "city"},
		{input.State, "state"},
		{input.PostalCode, "postal code"},
		{input.Country, "country"},
	}
	for _, c := range checks {
		if err := requireNonEmpty(c.value, c.label); err != nil {
			return err
		}
	}
	return nil
}

func requireNonEmpty(value, label string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, label+" required")
	}
	return nil
}
