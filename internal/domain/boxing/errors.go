package boxing

import "errors"

var (
	ErrMemberNotFound = errors.New("boxing member not found")
	ErrPhotoNotFound  = errors.New("photo not found")
	ErrInvalidInput   = errors.New("invalid input")
)
