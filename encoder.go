package deferblock

import (
	"errors"

	"github.com/riftlab/deferblock/lib/encoding"
)

// snapshotWire is the msgpack-visible shape of a Snapshot. Kept distinct
// from Snapshot itself so the wire format doesn't couple to however
// Instance chooses to represent states in memory.
type snapshotWire struct {
	Main     int `msgpack:"m"`
	Prefetch int `msgpack:"p"`
}

func (w snapshotWire) HXEncode() map[string]any {
	return map[string]any{"m": w.Main, "p": w.Prefetch}
}

func (w *snapshotWire) HXDecode(data map[string]any) error {
	if v, ok := data["m"]; ok {
		w.Main = toInt(v)
	}
	if v, ok := data["p"]; ok {
		w.Prefetch = toInt(v)
	}
	return nil
}

// toInt narrows a msgpack-decoded numeric value down to int for the small
// state ordinals stored here; msgpack picks the narrowest integer type
// that fits the encoded value, so the decoded type varies.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint64:
		return int(n)
	default:
		return 0
	}
}

// StateEncoding signs a Snapshot into the opaque token a request carries
// between ticks, reusing lib/encoding's signed-msgpack format. Snapshots
// are always signed, never encrypted — two small integers (the current
// Main/Prefetch ordinals) aren't worth hiding, only worth protecting from
// tampering, e.g. a client flipping Failed back to Placeholder to force a
// second loader invocation.
type StateEncoding struct {
	enc *encoding.Encoder
}

// NewStateEncoding builds the codec a Registry uses to encode/decode
// instance snapshots. Shorter-than-32-byte keys are stretched via
// SHA-256 by the underlying encoder.
func NewStateEncoding(key []byte) (*StateEncoding, error) {
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		return nil, err
	}
	return &StateEncoding{enc: enc}, nil
}

// Encode signs snap into a token safe to embed in an hx-get query
// parameter or a hidden form field.
func (s *StateEncoding) Encode(snap Snapshot) (string, error) {
	wire := snapshotWire{Main: int(snap.Main), Prefetch: int(snap.Prefetch)}
	return s.enc.Encode(wire, false)
}

// Decode verifies and parses a token produced by Encode. An empty token
// decodes to the zero Snapshot (Placeholder/NotStarted) — the creation
// pass, matching a request for a defer block that has never fired.
func (s *StateEncoding) Decode(token string) (Snapshot, error) {
	if token == "" {
		return Snapshot{}, nil
	}
	var wire snapshotWire
	if err := s.enc.Decode(token, false, &wire); err != nil {
		return Snapshot{}, wrapEncodingError(err)
	}
	return Snapshot{Main: MainState(wire.Main), Prefetch: PrefetchState(wire.Prefetch)}, nil
}

// wrapEncodingError maps lib/encoding's sentinel errors onto this
// package's own, so callers only ever need to errors.Is against
// deferblock's vocabulary.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return ErrInvalidFormat
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	if errors.Is(err, encoding.ErrDecryptFailed) {
		return ErrDecryptFailed
	}
	return err
}
