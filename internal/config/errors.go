package config

import "errors"

// ErrMissingStrategyLib indicates that ETH_RPC_URL is set but
// NORMAL_STRATEGY_LIB is not.
var ErrMissingStrategyLib = errors.New("missing NORMAL_STRATEGY_LIB environment variable")

// ErrInvalidStrategyLib is returned when NORMAL_STRATEGY_LIB is not a hex address.
var ErrInvalidStrategyLib = errors.New("invalid NORMAL_STRATEGY_LIB address")

// ErrInvalidNumber is returned when a numeric variable cannot be parsed.
var ErrInvalidNumber = errors.New("invalid numeric environment variable")

// ErrOutOfRange is returned when a numeric variable parses but is unusable.
var ErrOutOfRange = errors.New("environment variable out of range")
