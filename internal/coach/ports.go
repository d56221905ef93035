package coach

import (
	"context"
	"errors"
)

// FallbackReply is shown whenever the relay fails. It matches the apology
// the wire contract promises on HTTP 500.
const FallbackReply = "I'm having trouble connecting to my financial brain right now. Please try again!"

// ErrRelay marks a failed relay call (network, upstream, empty response).
// Relay errors are non-fatal and never propagate into the ledger.
var ErrRelay = errors.New("coach relay failed")

// Advisor is the outbound port to the generative model. Implementations
// return the model's free-text reply for a fully built prompt.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}
