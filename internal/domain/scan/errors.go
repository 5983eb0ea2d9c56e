package scan

import "errors"

// ErrStoreUnavailable indicates the file store failed the availability
// check; the scan aborts before enumeration.
var ErrStoreUnavailable = errors.New("file store unavailable")

// ErrEnumeration wraps a directory listing failure. Enumeration errors are
// fatal: unlike per-file errors the scan cannot continue without a file list.
var ErrEnumeration = errors.New("directory enumeration failed")
