package tasking

import "errors"

// ErrOrderIndexOutOfRange reports a request for an order slot that does not
// exist. Unlike capacity exhaustion, which is a transient condition reported
// by nil/false returns, this is a caller invariant violation.
var ErrOrderIndexOutOfRange = errors.New("order index out of range")
