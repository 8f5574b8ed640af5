package store

import "errors"

// Sentinel errors returned by store operations. Services translate these
// into coded domain errors at their boundary.
var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyExists    = errors.New("record already exists")
	ErrMemberNotFound   = errors.New("member not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagExists        = errors.New("tag already exists")
	ErrLocationNotFound = errors.New("location not found")
)
