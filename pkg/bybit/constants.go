package bybit

import "fmt"

// Category is the product family a symbol belongs to.
type Category string

const (
	CategoryLinear  Category = "linear"
	CategoryInverse Category = "inverse"
)

// ParseCategory accepts the derivative categories that carry open interest and funding.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryLinear, CategoryInverse:
		return c, nil
	}
	return "", fmt.Errorf("invalid Category: %s", s)
}

// IntervalTime is the open-interest aggregation bucket accepted by the API.
type IntervalTime string

const (
	OIInterval5Min  IntervalTime = "5min"
	OIInterval15Min IntervalTime = "15min"
	OIInterval30Min IntervalTime = "30min"
	OIInterval1Hour IntervalTime = "1h"
	OIInterval4Hour IntervalTime = "4h"
	OIInterval1Day  IntervalTime = "1d"
)

var validIntervalTimes = map[IntervalTime]struct{}{
	OIInterval5Min:  {},
	OIInterval15Min: {},
	OIInterval30Min: {},
	OIInterval1Hour: {},
	OIInterval4Hour: {},
	OIInterval1Day:  {},
}

// IsValid checks if the IntervalTime is a valid predefined interval
func (i IntervalTime) IsValid() bool {
	_, ok := validIntervalTimes[i]
	return ok
}

// ParseIntervalTime parses a string into a valid IntervalTime
func ParseIntervalTime(s string) (IntervalTime, error) {
	i := IntervalTime(s)
	if !i.IsValid() {
		return "", fmt.Errorf("invalid IntervalTime: %s", s)
	}
	return i, nil
}
