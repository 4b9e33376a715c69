package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/metrics"
	"github.com/harlo-app/harlo-server/internal/model"
)

// Deletion runs the account-deletion cascade: re-verify the password,
// purge the user's blobs and documents, then remove the identity.
type Deletion struct {
	auth    *Auth
	docs    model.DocumentStore
	storage model.Storage
	metrics *metrics.Deletion
	logger  *logger.Logger

	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

func NewDeletion(
	auth *Auth,
	docs model.DocumentStore,
	storage model.Storage,
	metrics *metrics.Deletion,
	logger *logger.Logger,
) *Deletion {
	return &Deletion{
		auth:    auth,
		docs:    docs,
		storage: storage,
		metrics: metrics,
		logger:  logger,
		active:  make(map[uuid.UUID]struct{}),
	}
}

// Transaction is the in-memory state of one deletion attempt. It exists
// only for the duration of one user-initiated deletion and is driven by
// Confirm and SubmitPassword.
type Transaction struct {
	d    *Deletion
	sess *model.Session

	mu     sync.Mutex
	state  model.DeletionState
	result model.DeletionResult
}

// Begin starts a deletion transaction for the session's user. At most
// one transaction per user runs at a time; a second Begin fails with
// ErrDeletionInProgress until the first one terminates.
func (d *Deletion) Begin(sess *model.Session) (*Transaction, error) {
	if sess == nil || sess.UserID == uuid.Nil {
		return nil, model.ErrMissingEmail
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, running := d.active[sess.UserID]; running {
		return nil, model.ErrDeletionInProgress
	}
	d.active[sess.UserID] = struct{}{}

	return &Transaction{d: d, sess: sess, state: model.StateConfirmPending}, nil
}

// Delete runs one full transaction for the session: confirmation,
// password re-verification, purge and identity deletion. It is the
// single-request form of the flow; a recoverable stop at the password
// gate abandons the transaction so a retry can begin a fresh one.
func (d *Deletion) Delete(ctx context.Context, sess *model.Session, password string) (model.DeletionResult, error) {
	tx, err := d.Begin(sess)
	if err != nil {
		return model.DeletionResult{}, err
	}
	if err := tx.Confirm(); err != nil {
		tx.Abandon()
		return model.DeletionResult{}, err
	}

	result, err := tx.SubmitPassword(ctx, password)
	if err != nil && !tx.State().Terminal() {
		tx.Abandon()
	}
	return result, err
}

// State returns the transaction's current state.
func (t *Transaction) State() model.DeletionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the terminal outcome. Meaningful once State is Done or
// Failed.
func (t *Transaction) Result() model.DeletionResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Abandon releases the transaction without deleting anything. Valid
// only before the purge started.
func (t *Transaction) Abandon() {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case model.StateConfirmPending, model.StateReauthPending:
		t.state = model.StateFailed
		t.result.State = t.state
		t.d.release(t.sess.UserID)
	}
}

// Confirm records the user's explicit confirmation of intent and moves
// the transaction to the password gate. The warning step is never
// skipped: SubmitPassword fails until Confirm was called.
func (t *Transaction) Confirm() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != model.StateConfirmPending {
		return fmt.Errorf("cannot confirm in state %q", t.state)
	}
	t.state = model.StateReauthPending
	return nil
}

// SubmitPassword drives the transaction through re-authentication, the
// purges and identity deletion. On a wrong password or exhausted
// attempt budget the transaction stays at the password gate and the
// user may retry; any other failure is terminal.
func (t *Transaction) SubmitPassword(ctx context.Context, password string) (model.DeletionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != model.StateReauthPending {
		return t.result, fmt.Errorf("cannot submit password in state %q", t.state)
	}
	if password == "" {
		// Rejected locally, the credential check is never reached.
		return t.result, model.ErrEmptyPassword
	}

	t.state = model.StateReauthenticating

	if err := t.d.auth.Reauthenticate(ctx, t.sess, password); err != nil {
		switch {
		case errors.Is(err, model.ErrWrongCredential), errors.Is(err, model.ErrTooManyAttempts):
			// Recoverable: back to the password gate.
			t.state = model.StateReauthPending
			return t.result, err
		default:
			return t.fail(err)
		}
	}

	t.state = model.StatePurging

	storageResult, docErr := t.d.purge(ctx, t.sess.UserID)
	t.result.Storage = storageResult

	if docErr != nil {
		// Document purge failures stop the transaction before the
		// identity is touched.
		return t.fail(fmt.Errorf("document purge: %w", docErr))
	}

	t.state = model.StateDeletingIdentity

	if err := t.d.auth.DeleteIdentity(ctx, t.sess); err != nil {
		return t.fail(fmt.Errorf("identity deletion: %w", err))
	}

	t.state = model.StateDone
	t.result.State = t.state
	t.d.release(t.sess.UserID)
	t.d.metrics.Completed()

	if !storageResult.Clean() {
		// The account is gone but some blobs survived. Surfaced in the
		// result and logged for operational follow-up.
		t.d.logger.Warn("Deletion service: account deleted with residual storage objects",
			"user_id", t.sess.UserID,
			"failed_prefixes", len(storageResult.Failures))
	}

	t.d.logger.Info("Deletion service: transaction done",
		"user_id", t.sess.UserID,
		"objects_deleted", storageResult.Deleted)

	return t.result, nil
}

func (t *Transaction) fail(err error) (model.DeletionResult, error) {
	t.state = model.StateFailed
	t.result.State = t.state
	t.d.release(t.sess.UserID)
	t.d.metrics.Failed()

	t.d.logger.Error("Deletion service: transaction failed",
		"user_id", t.sess.UserID,
		"error", err.Error())

	return t.result, err
}

func (d *Deletion) release(userID uuid.UUID) {
	d.mu.Lock()
	delete(d.active, userID)
	d.mu.Unlock()
}

// purge runs the storage purge and the document purge concurrently.
// The storage outcome is always collected, never fatal; the document
// purge error decides whether the transaction may proceed.
func (d *Deletion) purge(ctx context.Context, ownerID uuid.UUID) (model.StoragePurgeResult, error) {
	var (
		wg            sync.WaitGroup
		storageResult model.StoragePurgeResult
		docErr        error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		storageResult = d.purgeStorage(ctx, ownerID)
	}()
	go func() {
		defer wg.Done()
		docErr = d.purgeDocuments(ctx, ownerID)
	}()
	wg.Wait()

	return storageResult, docErr
}
