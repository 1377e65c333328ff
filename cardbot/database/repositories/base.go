package repositories

import "time"

// defaultQueryTimeout bounds every repository call so a slow or wedged
// storage backend surfaces as an error instead of a hang.
const defaultQueryTimeout = 10 * time.Second
