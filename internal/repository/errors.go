package repository

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrAccountNotFound   = errors.New("coin account not found")
	ErrBalanceConflict   = errors.New("coin balance changed concurrently")
	ErrProfileNotFound   = errors.New("profile not found")
)
