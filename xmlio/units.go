package xmlio

import "fmt"

// timeUnitNanos converts a MinimumTime/Period/etc unit attribute to a
// nanosecond multiplier.
var timeUnitNanos = map[string]int64{
	"ns": 1,
	"us": 1_000,
	"ms": 1_000_000,
	"s":  1_000_000_000,
}

// speedUnitMBs converts a link Speed unit attribute to a multiplier
// that yields megabytes per second.
var speedUnitMBs = map[string]float64{
	"KBs": 0.001,
	"MBs": 1,
	"GBs": 1000,
}

// sizeUnitBytes converts a frame Size unit attribute to a byte
// multiplier.
var sizeUnitBytes = map[string]int64{
	"Byte":  1,
	"KByte": 1_000,
	"MByte": 1_000_000,
}

func timeToNanos(value int64, unit string) (int64, error) {
	if unit == "" {
		unit = "ns"
	}
	mult, ok := timeUnitNanos[unit]
	if !ok {
		return 0, fmt.Errorf("xmlio: unknown time unit %q", unit)
	}
	return value * mult, nil
}

func speedToMBs(value float64, unit string) (float64, error) {
	if unit == "" {
		unit = "MBs"
	}
	mult, ok := speedUnitMBs[unit]
	if !ok {
		return 0, fmt.Errorf("xmlio: unknown speed unit %q", unit)
	}
	return value * mult, nil
}

func sizeToBytes(value int64, unit string) (int64, error) {
	if unit == "" {
		unit = "Byte"
	}
	mult, ok := sizeUnitBytes[unit]
	if !ok {
		return 0, fmt.Errorf("xmlio: unknown size unit %q", unit)
	}
	return value * mult, nil
}
