package decision

import "errors"

var (
	ErrInvalidState    = errors.New("invalid state")
	ErrIllegalVoteType = errors.New("illegal vote type")
	ErrNotFound        = errors.New("not found")
	ErrWriteConflict   = errors.New("write conflict")
	ErrTransient       = errors.New("transient failure")
	ErrInvalidConfig   = errors.New("invalid config")
)

var reasonCodes = []struct {
	err  error
	code string
}{
	{ErrInvalidState, "invalid_state"},
	{ErrIllegalVoteType, "illegal_vote_type"},
	{ErrNotFound, "not_found"},
	{ErrTransient, "transient_failure"},
	{ErrWriteConflict, "write_conflict"},
	{ErrInvalidConfig, "invalid_config"},
}

// ReasonCode maps an error to the stable code callers translate into responses.
// ErrTransient is checked before ErrWriteConflict since exhausted retries wrap both.
func ReasonCode(err error) string {
	if err == nil {
		return ""
	}
	for _, rc := range reasonCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return "internal"
}
