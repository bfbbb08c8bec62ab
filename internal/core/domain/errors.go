package domain

import "errors"

var (
	ErrForbidden            = errors.New("access forbidden")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRole          = errors.New("invalid role")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrAdminExists          = errors.New("an admin account already exists")
	ErrNotificationNotFound = errors.New("notification not found")
)

// RemoteError reports a failure of the storage, auth or provisioning layer.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Remote wraps err as a RemoteError for op. It returns nil when err is nil.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, Err: err}
}
