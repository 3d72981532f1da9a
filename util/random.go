package util

import (
	"math/rand"
	"time"
)

// GetRandomTime returns a random duration between the lower and upper bound. Useful to
// jitter retry sleeps so that parallel workers do not hammer a service in lockstep.
func GetRandomTime(lowerBound, upperBound time.Duration) time.Duration {
	if lowerBound >= upperBound {
		return lowerBound
	}

	lowerBoundMs := int(lowerBound.Milliseconds())
	upperBoundMs := int(upperBound.Milliseconds())

	randTimeInt := rand.Intn(upperBoundMs-lowerBoundMs) + lowerBoundMs

	return time.Duration(randTimeInt) * time.Millisecond
}
