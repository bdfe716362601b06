package services

import "errors"

// Data service errors
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrNoDatasets      = errors.New("no datasets loaded")
	ErrInvalidFormat   = errors.New("invalid export format")
	ErrInvalidInput    = errors.New("invalid input")
)
