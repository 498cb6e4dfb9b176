package issue

import "errors"

var (
	ErrInvalidSource     = errors.New("invalid issue source")
	ErrInvalidUrgency    = errors.New("invalid urgency")
	ErrInvalidCategory   = errors.New("invalid issue category")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidAuthorRole = errors.New("invalid comment author role")
)
