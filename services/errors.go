package services

import (
	"errors"

	"github.com/healthtrack/backend/models"
)

var (
	// ErrNotFound covers users, goals, health entries and meal logs referenced by id.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a record exists but belongs to another user.
	ErrForbidden = errors.New("record does not belong to user")
	// ErrProfileNotFound means goal calculation was attempted before a profile exists.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileIncomplete means the profile lacks weight, height or birthdate.
	ErrProfileIncomplete = models.ErrProfileIncomplete
	ErrInvalidInput      = errors.New("invalid input")
)
