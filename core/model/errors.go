package model

import "fmt"

// ConfigError reports an invalid asset, fleet or run parameter. A simulation
// never starts with an invalid configuration: these surface before the first
// step executes and no partial result is produced.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// DataError reports an unusable price series: empty, out of order, or
// containing non-finite values. Like ConfigError it is fatal pre-run.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string { return "price data: " + e.Reason }

func dataErrorf(format string, args ...any) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}
