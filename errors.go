package deferblock

import "errors"

// Sentinel errors for defer-block operations. See §7 of the runtime design
// for the four error kinds and how each is recovered.
var (
	ErrNotFound         = errors.New("deferblock: descriptor not found")
	ErrDecryptFailed    = errors.New("deferblock: state token decryption failed")
	ErrSignatureInvalid = errors.New("deferblock: state token signature invalid")
	ErrInvalidFormat    = errors.New("deferblock: invalid state token format")

	// ErrLoaderRejected means the descriptor's dependency promise rejected.
	// The instance enters Failed; the error sub-view renders if present.
	ErrLoaderRejected = errors.New("deferblock: dependency loader rejected")

	// ErrUnresolvedTrigger means a DOM-bound trigger's anchor could not be
	// located at arming time. The trigger becomes inert.
	ErrUnresolvedTrigger = errors.New("deferblock: trigger anchor unresolved")

	// ErrDisposerFailed means a cleanup disposer panicked. Recorded; does
	// not interrupt the remaining disposers.
	ErrDisposerFailed = errors.New("deferblock: disposer failed")

	// ErrIllegalTransition means an event tried to move an instance out of
	// a terminal state, or otherwise off the legal transition graph. The
	// event is ignored.
	ErrIllegalTransition = errors.New("deferblock: illegal state transition")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDecryptionError checks if err is a decryption or signature error on the
// instance's state token.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}
