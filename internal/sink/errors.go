package sink

import "errors"

var ErrNothingToCommit = errors.New("nothing to commit")
