package http

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"news-credibility-service/internal/domain"
)

const submissionSchema = `{
  "type": "object",
  "required": ["quizId", "userId", "answers", "credibilityRating", "confidenceLevel"],
  "properties": {
    "quizId": {"type": "integer", "minimum": 1},
    "userId": {"type": "integer", "minimum": 1},
    "answers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["questionId", "selectedOption"],
        "properties": {
          "questionId": {"type": "integer"},
          "selectedOption": {"type": "integer", "minimum": 1, "maximum": 4},
          "timeTakenSeconds": {"type": "integer", "minimum": 0}
        }
      }
    },
    "credibilityRating": {"type": "integer", "minimum": 1, "maximum": 5},
    "flaggedAsMisinformation": {"type": "boolean"},
    "confidenceLevel": {"type": "integer", "minimum": 1, "maximum": 5},
    "comment": {"type": "string", "maxLength": 1000},
    "totalTimeSeconds": {"type": "integer", "minimum": 0}
  }
}`

const flagSchema = `{
  "type": "object",
  "required": ["articleId", "userId", "flagType", "severity", "reasoning"],
  "properties": {
    "articleId": {"type": "integer", "minimum": 1},
    "userId": {"type": "integer", "minimum": 1},
    "flagType": {"enum": ["fake_news", "misleading", "satire", "clickbait", "other"]},
    "severity": {"type": "integer", "minimum": 1, "maximum": 5},
    "reasoning": {"type": "string", "minLength": 20, "maxLength": 1000},
    "evidenceProvided": {"type": "string", "maxLength": 2000}
  }
}`

const registerSchema = `{
  "type": "object",
  "properties": {
    "userIdentifier": {"type": "string", "maxLength": 100}
  }
}`

var schemaSources = map[string]string{
	"submission": submissionSchema,
	"flag":       flagSchema,
	"register":   registerSchema,
}

// schemaCache caches compiled request schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// decodeValidated checks raw against the named schema and then decodes it into dst.
// Schema failures are reported as validation errors.
func decodeValidated(name string, raw []byte, dst any) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
	}

	compiled, err := compiledSchema(name)
	if err != nil {
		return err
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}
	src, ok := schemaSources[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	var def any
	if err := json.Unmarshal([]byte(src), &def); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
