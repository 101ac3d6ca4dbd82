package database

import "errors"

// ErrNotReady indicates the connection pool has not been established.
var ErrNotReady = errors.New("database not ready")
