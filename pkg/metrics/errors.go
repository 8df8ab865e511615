package metrics

import "errors"

var ErrRegisterFailed = errors.New("failed to register state machine metrics")
