package core

import (
	"github.com/google/uuid"
)

// ID is a time-ordered unique identifier
type ID string

// NewID creates a UUID v7, falling back to a random v4 if the clock source fails
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

func (id ID) String() string { return string(id) }

// RunID identifies one analysis execution inside a batch. It only correlates log lines;
// bundles themselves stay free of identifiers so identical inputs give identical output.
type RunID ID

func NewRunID() RunID { return RunID(NewID()) }

func (id RunID) String() string { return ID(id).String() }

// Short is the random tail of the ID, enough to tell concurrent runs apart in a log
func (id RunID) Short() string {
	s := id.String()
	if len(s) <= 12 {
		return s
	}
	return s[len(s)-12:]
}
