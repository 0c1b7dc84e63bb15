package stor

import "errors"

// Validation failures. None of these leave any mutation behind; the enclosing
// transaction rolls back before they are returned.
var (
	// ErrDuplicateName means an element of the same kind with the requested name
	// already exists under the target folder.
	ErrDuplicateName = errors.New("an element with this name already exists in the folder")

	// ErrEmptyName is returned when a create or rename is given an empty name.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrInvalidInput covers other rejected input, such as operating on a root folder.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by name and id lookups that miss.
	ErrNotFound = errors.New("not found")

	// ErrSameFolder is returned when a move targets the element's current folder.
	ErrSameFolder = errors.New("element is already in this folder")

	// ErrCycle is returned when a folder move would make the folder its own descendant.
	ErrCycle = errors.New("cannot move a folder into itself or its descendants")

	// ErrDuplicateUsername is returned when an account with the username already exists.
	ErrDuplicateUsername = errors.New("username is already taken")

	// ErrInvalidCredentials is returned uniformly for unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
