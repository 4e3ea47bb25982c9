package goals

import "errors"

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrLinkedAccountNotFound     = errors.New("the linked account was not found or does not belong to the user")
	ErrReservationExceedsBalance = errors.New("cannot reserve more than the available balance of the linked account")
	ErrDaysOutOfRange            = errors.New("days must be between 1 and 30")
	ErrDeadlineInPast            = errors.New("the deadline must not be in the past")
	ErrDeadlineFormat            = errors.New("invalid deadline format. Use YYYY-MM-DD")
	ErrFieldNotUpdateable        = errors.New("this field cannot be updated")
	ErrFieldTypeInvalid          = errors.New("the field has the wrong type")
	ErrSearchAmountNegative      = errors.New("amounts must not be negative")
	ErrSearchAmountRangeInverted = errors.New("the minimum amount must not be larger than the maximum amount")
)
