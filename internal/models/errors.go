package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidBet      = errors.New("invalid bet record")
	ErrInvalidRow      = errors.New("invalid input row")
	ErrShapeMismatch   = errors.New("matrix shape mismatch")
	ErrNoLabels        = errors.New("at least one label is required")
	ErrUnsupportedFile = errors.New("unsupported input file format")
)
