package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrHabitNotFound = errors.New("habit doesn't exist")
	ErrUserHasHabit  = errors.New("user already has habit with such title")
	ErrWrongOwner    = errors.New("habit belongs to another user")
	ErrHabitArchived = errors.New("habit is archived")
	ErrOwnerNotFound = errors.New("owner of habit doesn't exist")

	ErrInvalidDate        = errors.New("invalid or out-of-range date")
	ErrInvalidIncrement   = errors.New("completion increment must be positive")
	ErrInvalidRecurrence  = errors.New("invalid recurrence rule")
	ErrNotScheduled       = errors.New("habit is not scheduled on given date")
	ErrCompletionNotFound = errors.New("no completion recorded for given date")
	ErrNotStreakTail      = errors.New("only the most recent completion can be removed")
)
