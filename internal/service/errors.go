package service

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateID       = errors.New("id already exists")
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrPersistence       = errors.New("ledger save failed")
	ErrNotification      = errors.New("low-stock notification failed")
)
