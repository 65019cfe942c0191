package membership

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrInvalidInput       = errors.New("invalid input")
)
