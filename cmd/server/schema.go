package main

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Structure only. Value ranges are left to roi.Validator so every range violation
// is reported together.
const reportRequestDefinition = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["inputs"],
	"properties": {
		"inputs": {
			"type": "object",
			"additionalProperties": false,
			"required": [
				"applicationsPerYear",
				"currentHoursPerApplication",
				"projectedHoursPerApplication",
				"staffHourlyRate",
				"currentTechCostPerYear",
				"currentAdminCostPerYear",
				"projectedTechSavingsPerYear",
				"projectedAdminSavingsPerYear"
			],
			"properties": {
				"applicationsPerYear": {"type": "integer"},
				"currentHoursPerApplication": {"type": "number"},
				"projectedHoursPerApplication": {"type": "number"},
				"staffHourlyRate": {"type": "number"},
				"currentTechCostPerYear": {"type": "number"},
				"currentAdminCostPerYear": {"type": "number"},
				"projectedTechSavingsPerYear": {"type": "number"},
				"projectedAdminSavingsPerYear": {"type": "number"}
			}
		},
		"tier": {"type": "string"},
		"features": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"communityVoting": {"type": "boolean"},
				"grantMapping": {"type": "boolean"}
			}
		},
		"horizonYears": {"type": "integer", "maximum": 100},
		"discountRate": {"type": "number"}
	}
}`

var (
	reportRequestSchema = mustSchema(reportRequestDefinition)

	scenarioRequestSchema = mustSchema(fmt.Sprintf(`{
		"type": "object",
		"additionalProperties": false,
		"required": ["title", "request"],
		"properties": {
			"title": {"type": "string", "minLength": 1, "maxLength": 200},
			"notes": {"type": "string", "maxLength": 2000},
			"request": %s
		}
	}`, reportRequestDefinition))
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile request schema: %v", err))
	}
	return s
}

// schemaError lists every structural problem in a request body.
type schemaError struct {
	problems []string
}

func (e *schemaError) Error() string {
	return "malformed request: " + strings.Join(e.problems, "; ")
}

func checkSchema(s *gojsonschema.Schema, body []byte) error {
	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &schemaError{problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		problems[i] = desc.String()
	}
	return &schemaError{problems: problems}
}
