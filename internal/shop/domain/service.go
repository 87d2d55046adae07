package domain

import (
	"context"
	"errors"
)

type CreateShopRequest struct {
	Name string
}

type Service interface {
	// Resolve returns the shop for the active request context, falling back
	// to the default shop when no shop ID is carried in the context.
	Resolve(ctx context.Context) (Shop, error)
	Create(ctx context.Context, req CreateShopRequest) (Shop, error)
	GetByID(ctx context.Context, id string) (Shop, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
	ErrAlreadyExists = errors.New("already_exists")
)
