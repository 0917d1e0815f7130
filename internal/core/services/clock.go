package services

import "time"

// Clock supplies the current time. Services read it once per operation.
type Clock func() time.Time
