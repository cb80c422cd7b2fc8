package storage

import "errors"

// Validation and lookup errors surfaced by the document mutators.
var (
	ErrEmptyGroupName        = errors.New("group name must not be empty")
	ErrDuplicateGroupName    = errors.New("group name already exists")
	ErrDefaultGroupProtected = errors.New("default group cannot be deleted")
	ErrGroupNotFound         = errors.New("group not found")
	ErrTabNotFound           = errors.New("tab not found in group")
	ErrBadPermutation        = errors.New("order must be a permutation of existing ids")
)
