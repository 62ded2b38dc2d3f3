package model

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusEndangered Status = "endangered"
	StatusVulnerable Status = "vulnerable"
	StatusExtinct    Status = "extinct"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusActive, StatusEndangered, StatusVulnerable, StatusExtinct}

var statusSynonyms = map[string]Status{
	"active":                StatusActive,
	"living":                StatusActive,
	"safe":                  StatusActive,
	"endangered":            StatusEndangered,
	"critically endangered": StatusEndangered,
	"moribund":              StatusEndangered,
	"vulnerable":            StatusVulnerable,
	"threatened":            StatusVulnerable,
	"extinct":               StatusExtinct,
	"dormant":               StatusExtinct,
	"dead":                  StatusExtinct,
}

var statusLabels = map[Status]string{
	StatusActive:     "Active",
	StatusEndangered: "Endangered",
	StatusVulnerable: "Vulnerable",
	StatusExtinct:    "Extinct",
}

var statusColors = map[Status]string{
	StatusActive:     "hsl(120, 50%, 35%)",
	StatusEndangered: "hsl(0, 70%, 45%)",
	StatusVulnerable: "hsl(35, 80%, 50%)",
	StatusExtinct:    "hsl(270, 50%, 45%)",
}

// NormalizeStatus maps an externally supplied status onto the fixed enumeration.
func NormalizeStatus(s string) (Status, error) {
	key := strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(s, "_", " "))), " ")
	if st, ok := statusSynonyms[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown language status %q", s)
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Color is the marker colour for the status; unknown values render white.
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "#ffffff"
}
