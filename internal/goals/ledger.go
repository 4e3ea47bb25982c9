package goals

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// accountLocks serializes reservation checks per user and account so
// that two concurrent writes cannot both pass the check and then
// overshoot the available balance together.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for the user and account combination and
// returns the function releasing it.
func (l *accountLocks) lock(userID, accountID uuid.UUID) func() {
	key := userID.String() + "/" + accountID.String()

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// checkReservation verifies that reserving the proposed amount against
// the account keeps the sum of all reservations within the available
// balance.
//
// The proposed amount is the full reservation the goal will hold after
// the write, not the delta. The goal itself is excluded from the sum of
// existing reservations via excludeGoalID, uuid.Nil excludes nothing.
func (s *Service) checkReservation(tx *gorm.DB, userID, accountID uuid.UUID, proposed decimal.Decimal, excludeGoalID uuid.UUID) error {
	account, err := s.accounts.Get(tx, userID, accountID)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return ErrLinkedAccountNotFound
		}

		return err
	}

	reserved, err := models.SumLinkedAmount(tx, userID, accountID, excludeGoalID)
	if err != nil {
		return err
	}

	if reserved.Add(proposed).GreaterThan(account.AvailableBalance) {
		return fmt.Errorf("%w ($%s). Already reserved: $%s", ErrReservationExceedsBalance, account.AvailableBalance, reserved)
	}

	return nil
}
