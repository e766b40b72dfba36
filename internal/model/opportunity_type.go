package model

import (
	"fmt"
	"strings"
)

// OpportunityType is the closed set of listing categories.
type OpportunityType string

const (
	TypeHackathon   OpportunityType = "hackathon"
	TypeInternship  OpportunityType = "internship"
	TypeFellowship  OpportunityType = "fellowship"
	TypeScholarship OpportunityType = "scholarship"
	TypeCompetition OpportunityType = "competition"
	TypeProgram     OpportunityType = "program"
	TypeOpportunity OpportunityType = "opportunity"
)

// AllTypes lists every OpportunityType in inference priority order,
// with the catch-all last.
var AllTypes = []OpportunityType{
	TypeHackathon,
	TypeInternship,
	TypeFellowship,
	TypeScholarship,
	TypeCompetition,
	TypeProgram,
	TypeOpportunity,
}

// ParseType converts a raw string to an OpportunityType. Matching ignores
// case and surrounding whitespace; unknown values are an error.
func ParseType(s string) (OpportunityType, error) {
	t := OpportunityType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown opportunity type %q", s)
}

// ParseOptionalType is ParseType for optional inputs: empty means no filter.
func ParseOptionalType(s string) (*OpportunityType, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseType(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
