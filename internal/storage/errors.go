package storage

import "errors"

var (
	ErrUserExist    = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)
