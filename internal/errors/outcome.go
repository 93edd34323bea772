package errors

// Outcome is what a caller learns about a finished (or abandoned) exchange.
type Outcome uint8

const (
	OutcomePending Outcome = iota
	OutcomeComplete
	// OutcomeNoResponse: the request failed before any status line was delivered.
	OutcomeNoResponse
	OutcomeMalformed
	// OutcomeAborted: a status was delivered but the body never finished.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeComplete:
		return "complete"
	case OutcomeNoResponse:
		return "no response"
	case OutcomeMalformed:
		return "malformed response"
	case OutcomeAborted:
		return "aborted"
	}
	return "unknown"
}

// Classify maps a failure onto an Outcome given whether a status was already seen.
func Classify(err error, statusSeen bool) Outcome {
	switch {
	case err == nil:
		return OutcomeComplete
	case Is(err, ErrMalformedResponse), Is(err, ErrTooManyHeaders):
		return OutcomeMalformed
	case statusSeen:
		return OutcomeAborted
	}
	return OutcomeNoResponse
}
