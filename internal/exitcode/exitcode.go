// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including offline operation.
	Success = 0

	// UserError indicates a user error (bad args, unknown task reference).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// SyncError indicates the remote rejected or failed a request and the
	// local change was rolled back.
	SyncError = 3
)
