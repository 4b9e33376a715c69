package model

// DeletionState is the orchestrator state of one account-deletion
// transaction.
type DeletionState string

const (
	// StateIdle is the initial state before any user intent.
	StateIdle DeletionState = "idle"
	// StateConfirmPending waits for explicit confirmation of intent.
	StateConfirmPending DeletionState = "confirm_pending"
	// StateReauthPending waits for the user's password.
	StateReauthPending DeletionState = "reauth_pending"
	// StateReauthenticating is verifying the submitted credential.
	StateReauthenticating DeletionState = "reauthenticating"
	// StatePurging runs the storage and document purges.
	StatePurging DeletionState = "purging"
	// StateDeletingIdentity removes the authentication account.
	StateDeletingIdentity DeletionState = "deleting_identity"
	// StateDone is the successful terminal state.
	StateDone DeletionState = "done"
	// StateFailed is the failed terminal state; the whole flow must be
	// re-initiated from confirmation.
	StateFailed DeletionState = "failed"
)

// Terminal reports whether the state ends the transaction.
func (s DeletionState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// PrefixFailure records one storage sub-tree that failed to delete.
type PrefixFailure struct {
	Prefix string
	Err    error
}

// StoragePurgeResult is the outcome of the storage purge stage. The
// stage is best effort: failures are collected here rather than aborting
// sibling deletions, so the orchestrator and tests can inspect exactly
// what was swallowed.
type StoragePurgeResult struct {
	Deleted  int
	Failures []PrefixFailure
}

// Clean reports whether every reachable object was deleted.
func (r StoragePurgeResult) Clean() bool {
	return len(r.Failures) == 0
}

// DeletionResult is the terminal outcome of a deletion transaction.
type DeletionResult struct {
	State   DeletionState
	Storage StoragePurgeResult
}
