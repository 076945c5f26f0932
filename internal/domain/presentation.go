package domain

import "fmt"

// Palette maps a colour name used on badges to its 600-weight hex value.
var Palette = map[string]string{
	"red":    "dc2626",
	"yellow": "ca8a04",
	"green":  "16a34a",
	"blue":   "2563eb",
	"purple": "9333ea",
	"amber":  "d97706",
	"rose":   "e11d48",
	"cyan":   "0891b2",
	"slate":  "475569",
}

var severityColors = map[Severity]string{
	SeverityHigh:   "red",
	SeverityMedium: "yellow",
	SeverityLow:    "blue",
}

var teamColors = map[Team]string{
	TeamSales:           "blue",
	TeamMarketing:       "green",
	TeamProduct:         "purple",
	TeamData:            "amber",
	TeamFinance:         "rose",
	TeamCustomerSuccess: "cyan",
	TeamAll:             "slate",
}

var alignmentColors = map[AlignmentStatus]string{
	AlignmentAligned:    "green",
	AlignmentPartial:    "yellow",
	AlignmentMisaligned: "red",
}

// SeverityColor returns the badge colour name for a severity.
func SeverityColor(s Severity) (string, error) {
	c, ok := severityColors[s]
	if !ok {
		return "", fmt.Errorf("no colour for severity %q", s)
	}
	return c, nil
}

// TeamColor returns the badge colour name for a team.
func TeamColor(t Team) (string, error) {
	c, ok := teamColors[t]
	if !ok {
		return "", fmt.Errorf("no colour for team %q", t)
	}
	return c, nil
}

// AlignmentColor returns the badge colour name for an alignment status.
func AlignmentColor(a AlignmentStatus) (string, error) {
	c, ok := alignmentColors[a]
	if !ok {
		return "", fmt.Errorf("no colour for alignment status %q", a)
	}
	return c, nil
}

// SeverityHex resolves a severity to the hex value of its badge colour.
func SeverityHex(s Severity) (string, error) {
	name, err := SeverityColor(s)
	if err != nil {
		return "", err
	}
	return Palette[name], nil
}
