// Package models defines the data types shared by the pipeline stages.
package models

import "strings"

// City identifies one (city, state) batch of the run.
type City struct {
	Name  string `json:"city"`
	State string `json:"state"`
}

// Slug returns the city/state token used in artifact file names,
// with spaces stripped from the city part (e.g. "SanAntonio_TX").
func (c City) Slug() string {
	return strings.ReplaceAll(c.Name, " ", "") + "_" + c.State
}

// String returns "City, ST" for log lines.
func (c City) String() string {
	return c.Name + ", " + c.State
}

// DefaultCities returns the fixed run input: the three Texas markets the
// pipeline covers. The list is passed to the orchestrator explicitly and is
// not configurable at runtime.
func DefaultCities() []City {
	return []City{
		{Name: "San Antonio", State: "TX"},
		{Name: "Houston", State: "TX"},
		{Name: "Dallas", State: "TX"},
	}
}
