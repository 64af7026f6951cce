package services

import (
	"errors"

	"catalog-service/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidStatus      = errors.New("invalid status")
)
