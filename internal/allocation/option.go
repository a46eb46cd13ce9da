package allocation

import "time"

type options struct {
	shuffler Shuffler
	now      func() time.Time
	nextWeek bool
	catalog  Catalog
	capacity int
}

// Option customises an allocator.
type Option func(*options)

// WithSeed makes tie-breaking deterministic. A zero seed keeps system entropy.
func WithSeed(seed int64) Option {
	return func(o *options) {
		if seed != 0 {
			o.shuffler = seededShuffler(seed)
		}
	}
}

// WithClock sets the time source used for created_at stamps and week dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithNextWeek dates allocations in the week after the clock's current week.
func WithNextWeek(enabled bool) Option {
	return func(o *options) {
		o.nextWeek = enabled
	}
}

// WithCatalog replaces the room catalog. Tests only; production uses DefaultCatalog.
func WithCatalog(c Catalog) Option {
	return func(o *options) {
		if len(c) > 0 {
			o.catalog = c
		}
	}
}

// WithOasisCapacity overrides the daily Oasis headcount. Tests only.
func WithOasisCapacity(capacity int) Option {
	return func(o *options) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		shuffler: globalShuffler{},
		now:      time.Now,
		catalog:  DefaultCatalog,
		capacity: OasisDailyCapacity,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) week() Week {
	week := WeekOf(o.now())
	if o.nextWeek {
		week = week.Next()
	}
	return week
}
