package auth

import "errors"

var (
	// ErrAuthRequired means the operation needs a session that does not
	// exist or has expired. Interactive sign-in is never started
	// implicitly; the caller must go through SignIn.
	ErrAuthRequired = errors.New("authentication required")

	// ErrMissingClientConfig means Settings lack the OAuth client id or
	// secret needed to start a sign-in flow.
	ErrMissingClientConfig = errors.New("github client id and secret must be configured")
)
