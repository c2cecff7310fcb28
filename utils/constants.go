// File: utils/constants.go
package utils

import "time"

// CommissionCacheKey holds the cached commission table.
const CommissionCacheKey = "commission:config"

// CommissionLockKey serialises commission rate edits across instances.
const CommissionLockKey = "lock:commission:rates"

// CommissionLockTTL bounds how long a crashed writer can hold the rate lock.
const CommissionLockTTL = 15 * time.Second

// StoreTimeout is the per-call deadline for repository round trips.
const StoreTimeout = 5 * time.Second
