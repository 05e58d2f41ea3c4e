package service

import "errors"

// ErrShortPage flags a paginated fetch that stopped making progress before
// covering the server's reported total: the server promised more items than
// it will deliver.
var ErrShortPage = errors.New("short page: fewer items than the reported total")
