// Package account manages local profiles and their PIN locks.
package account

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mmcdole/hoard/internal/domain"
	"github.com/mmcdole/hoard/internal/pin"
)

const defaultName = "Default"

// Service reads and writes accounts in the store.
type Service struct {
	store  domain.Store
	logger *slog.Logger
}

// NewService creates a new account service.
func NewService(store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Default returns the first account, creating one on first run.
func (s *Service) Default() (domain.Account, error) {
	for _, key := range s.store.Keys(domain.CategoryAccounts) {
		var acc domain.Account
		if s.store.Get(domain.CategoryAccounts, key, &acc) {
			return acc, nil
		}
	}

	acc := domain.Account{ID: uuid.NewString(), Name: defaultName}
	if err := s.store.Put(domain.CategoryAccounts, acc.ID, acc); err != nil {
		return domain.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Info("created default account", "id", acc.ID)
	return acc, nil
}

// Get returns the account with the given id.
func (s *Service) Get(id string) (domain.Account, error) {
	var acc domain.Account
	if !s.store.Get(domain.CategoryAccounts, id, &acc) {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrRecordNotFound)
	}
	return acc, nil
}

// Secret returns what a PIN dialog should check against, or nil when the
// account has no PIN.
func (s *Service) Secret(acc domain.Account) pin.Secret {
	if !acc.HasPin() {
		return nil
	}
	return pin.HashedSecret(acc.PinHash)
}

// SetPin stores a new PIN for the account.
func (s *Service) SetPin(id, value string) (domain.Account, error) {
	acc, err := s.Get(id)
	if err != nil {
		return domain.Account{}, err
	}
	hash, err := pin.Hash(value)
	if err != nil {
		return domain.Account{}, err
	}
	acc.PinHash = string(hash)
	if err := s.store.Put(domain.CategoryAccounts, acc.ID, acc); err != nil {
		return domain.Account{}, fmt.Errorf("failed to save account: %w", err)
	}
	s.logger.Info("updated account pin", "id", acc.ID)
	return acc, nil
}

// ClearPin removes the PIN lock from the account.
func (s *Service) ClearPin(id string) (domain.Account, error) {
	acc, err := s.Get(id)
	if err != nil {
		return domain.Account{}, err
	}
	acc.PinHash = ""
	if err := s.store.Put(domain.CategoryAccounts, acc.ID, acc); err != nil {
		return domain.Account{}, fmt.Errorf("failed to save account: %w", err)
	}
	return acc, nil
}
