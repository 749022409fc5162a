package validator

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ScheduledAtPattern matches the client date format D/0M/YYYY, where M is the zero-based month
// (so December is "011").
const ScheduledAtPattern = `^[0-9]{1,2}/0[0-9]{1,2}/[0-9]{4}$`

const eventProperties = `{
	"title":       {"type": "string", "minLength": 1, "maxLength": 200},
	"eventType":   {"type": "string", "minLength": 1, "maxLength": 100},
	"description": {"type": "string", "minLength": 1, "maxLength": 5000},
	"scheduledAt": {"type": "string", "pattern": "` + ScheduledAtPattern + `"},
	"venue":       {"type": "string", "minLength": 1, "maxLength": 200}
}`

// createEventSchema requires every field
var createEventSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": ` + eventProperties + `,
	"required": ["title", "eventType", "description", "scheduledAt", "venue"],
	"additionalProperties": false
}`

// updateEventSchema accepts any non-empty subset of the fields
var updateEventSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": ` + eventProperties + `,
	"minProperties": 1,
	"additionalProperties": false
}`

var (
	schemasOnce  sync.Once
	createSchema *gojsonschema.Schema
	updateSchema *gojsonschema.Schema
	schemaErr    error
)

func loadSchemas() error {
	schemasOnce.Do(func() {
		createSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(createEventSchema))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("create event schema: %w", schemaErr)
			return
		}
		updateSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(updateEventSchema))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("update event schema: %w", schemaErr)
		}
	})
	return schemaErr
}

// ValidateCreateEvent validates a create payload. v is marshalled with encoding/json,
// so nil pointer fields tagged omitempty count as absent.
func ValidateCreateEvent(v interface{}) ([]string, error) {
	if err := loadSchemas(); err != nil {
		return nil, err
	}
	return validate(createSchema, v)
}

// ValidateUpdateEvent validates a partial update payload
func ValidateUpdateEvent(v interface{}) ([]string, error) {
	if err := loadSchemas(); err != nil {
		return nil, err
	}
	return validate(updateSchema, v)
}

func validate(schema *gojsonschema.Schema, v interface{}) ([]string, error) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems, nil
}
