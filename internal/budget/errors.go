package budget

import "errors"

var (
	// ErrAuthFailed means the account is unknown or the password is wrong.
	ErrAuthFailed = errors.New("unknown account or wrong password")
	// ErrTrackerNotFound means an account points at a tracker that is not
	// stored. Relink, create or join a family to recover.
	ErrTrackerNotFound = errors.New("family budget not found")
	// ErrAccountExists is returned when creating or joining with an email
	// that already has an account.
	ErrAccountExists = errors.New("account already exists")
	// ErrUnknownFamilyCode means no tracker has the given Family Code.
	ErrUnknownFamilyCode = errors.New("unknown family code")
	// ErrNoSession is returned by operations that need a signed-in account.
	ErrNoSession = errors.New("not signed in")
	// ErrEmailRequired is returned when an account email is blank.
	ErrEmailRequired = errors.New("email is required")
)
