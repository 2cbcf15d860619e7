package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrNoCopyAvailable = errors.New("no copies available")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrDuplicateISBN   = errors.New("isbn already exists")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicateName   = errors.New("name already exists")
	ErrReference       = errors.New("referenced record does not exist")
)
