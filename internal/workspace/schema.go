package workspace

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The schema admits the legacy wire shape too: older daemons correlate via
// "correlation_id" and stamp an RFC3339 "ts" string, which ParseEventEnvelope
// folds into the current envelope.
const envelopeSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://cowork-os.dev/schemas/event-envelope.json",
  "type": "object",
  "required": ["type"],
  "anyOf": [
    {"required": ["run_id"]},
    {"required": ["correlation_id"]}
  ],
  "properties": {
    "schema_version": {"type": "string"},
    "type": {
      "type": "string",
      "enum": [
        "thought_added",
        "thought_updated",
        "thought_streaming",
        "run_phase",
        "roster_updated",
        "usage_snapshot"
      ]
    },
    "run_id": {"type": "string", "minLength": 1},
    "correlation_id": {"type": "string", "minLength": 1},
    "source": {"type": "string"},
    "timestamp": {"type": "string"},
    "ts": {"type": "string"},
    "payload": {"type": "object"},
    "data": {"type": "object"}
  }
}`

var (
	envelopeSchemaOnce sync.Once
	envelopeSchema     *jsonschema.Schema
	envelopeSchemaErr  error
)

func compiledEnvelopeSchema() (*jsonschema.Schema, error) {
	envelopeSchemaOnce.Do(func() {
		envelopeSchema, envelopeSchemaErr = jsonschema.CompileString("event-envelope.json", envelopeSchemaJSON)
	})
	return envelopeSchema, envelopeSchemaErr
}

// ValidateEnvelope checks a raw wire envelope against the event schema.
// Envelopes that fail validation are dropped at the boundary instead of
// reaching a view model.
func ValidateEnvelope(raw []byte) error {
	schema, err := compiledEnvelopeSchema()
	if err != nil {
		return fmt.Errorf("compile envelope schema: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("validate envelope: %w", err)
	}
	return nil
}
