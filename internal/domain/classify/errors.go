package classify

import "errors"

// ErrRateLimited indicates the secondary analyzer budget is exhausted.
// The file is marked deferred, not failed.
var ErrRateLimited = errors.New("secondary analyzer rate limited")
