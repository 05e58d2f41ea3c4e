package mutex

import "errors"

// ErrCancelled is returned to every waiter rejected by [Mutex.CancelAll].
var ErrCancelled = errors.New("lock wait cancelled")
