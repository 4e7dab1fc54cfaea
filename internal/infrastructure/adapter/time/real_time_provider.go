package time

import (
	"time"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
)

// RealTimeProvider implements the TimeProvider interface with the system clock, in UTC
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new real time provider
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Since returns the time elapsed since t
func (p *RealTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(time.Since(t))
}

// FixedTimeProvider always reports the same instant
type FixedTimeProvider struct {
	At time.Time
}

// Now returns the fixed instant
func (p FixedTimeProvider) Now() time.Time {
	return p.At
}

// Since returns the time elapsed between t and the fixed instant
func (p FixedTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(p.At.Sub(t))
}
