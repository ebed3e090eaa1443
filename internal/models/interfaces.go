package models

import "time"

// Validator interface for models that can validate themselves
type Validator interface {
	Validate() error
}

// Timestamped interface for models that have timestamp information
type Timestamped interface {
	GetTimestamp() time.Time
}

// Identifiable interface for models that have unique identifiers
type Identifiable interface {
	GetID() string
}
