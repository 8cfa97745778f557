package service

import "errors"

var (
	ErrNoOracle        = errors.New("no contract executor configured")
	ErrUnknownSubtype  = errors.New("unknown analysis subtype")
	ErrInvalidStep     = errors.New("step must be in [1e-6, 1)")
	ErrUnknownAnalysis = errors.New("unknown analysis")
)
