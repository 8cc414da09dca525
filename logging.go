package deferblock

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-level structured logger used for the diagnostics
// §7 requires surfacing (DisposerFailed, UnresolvedTrigger, and
// IllegalTransition in development builds) without letting them escape
// into the caller's control flow. Swap it with SetLogger to route
// diagnostics into a host application's own logging pipeline.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger()

// DevMode gates whether IllegalTransition is logged at all (§7: "ignored
// with a diagnostic in development, silent in production").
var DevMode = false

// SetLogger replaces the package-level logger.
func SetLogger(l zerolog.Logger) {
	Logger = l
}

// Diagnostic is one of the non-fatal conditions §7 requires surfacing
// rather than escaping into the caller: a disposer panic, an unresolvable
// trigger anchor, an illegal state transition, or a rejected loader.
type Diagnostic struct {
	Kind         string
	DescriptorID string
	Err          error
}

const (
	DiagnosticDisposerFailed     = "disposer_failed"
	DiagnosticUnresolvedTrigger  = "unresolved_trigger"
	DiagnosticIllegalTransition  = "illegal_transition"
	DiagnosticLoaderRejected     = "loader_rejected"
)

// diagnosticHandler is the process-wide sink a Registry installs via
// SetOnDiagnostic, mirroring the shared-singleton shape of globalIdleQueue
// and globalViewportSet rather than threading a registry reference through
// every trigger and cleanup call site. nil means "zerolog only" (the
// default behavior before any Registry opts in).
var diagnosticHandler func(Diagnostic)

func emitDiagnostic(d Diagnostic) {
	if diagnosticHandler != nil {
		diagnosticHandler(d)
	}
}

func logDisposerFailed(recovered any) {
	Logger.Error().
		Err(ErrDisposerFailed).
		Interface("panic", recovered).
		Msg("deferblock: disposer panicked during cleanup")
	emitDiagnostic(Diagnostic{Kind: DiagnosticDisposerFailed, Err: ErrDisposerFailed})
}

func logUnresolvedTrigger(kind, descriptorID, ref string) {
	Logger.Warn().
		Err(ErrUnresolvedTrigger).
		Str("kind", kind).
		Str("descriptor", descriptorID).
		Str("ref", ref).
		Msg("deferblock: trigger anchor could not be resolved")
	emitDiagnostic(Diagnostic{Kind: DiagnosticUnresolvedTrigger, DescriptorID: descriptorID, Err: ErrUnresolvedTrigger})
}

func logIllegalTransition(descriptorID string, from, to string) {
	if !DevMode {
		return
	}
	Logger.Warn().
		Err(ErrIllegalTransition).
		Str("descriptor", descriptorID).
		Str("from", from).
		Str("to", to).
		Msg("deferblock: ignored transition out of terminal state")
	emitDiagnostic(Diagnostic{Kind: DiagnosticIllegalTransition, DescriptorID: descriptorID, Err: ErrIllegalTransition})
}

func logLoaderRejected(descriptorID string, err error) {
	Logger.Error().
		Err(err).
		Str("descriptor", descriptorID).
		Msg("deferblock: dependency loader rejected")
	emitDiagnostic(Diagnostic{Kind: DiagnosticLoaderRejected, DescriptorID: descriptorID, Err: err})
}
