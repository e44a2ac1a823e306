package service

import (
	"errors"
	"time"

	"github.com/strideapp/stride/pkg/date"
)

// LocationClock pins "today" to a fixed timezone so that every call in a
// request sees the same calendar date.
type LocationClock struct {
	loc *time.Location
}

func NewLocationClock(name string) (*LocationClock, error) {
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.New("loading timezone error: " + err.Error())
	}
	return &LocationClock{loc: loc}, nil
}

func (c *LocationClock) Today() date.Local {
	return date.Today(c.loc)
}
