// Package salvage recovers usable JSON objects from malformed model output.
//
// The extractor only understands flat objects: a candidate spans from an opening brace to the first closing
// brace after it, so objects containing nested objects are never recovered. This is intentional.
package salvage

import (
	"context"
	"encoding/json"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/xeipuuv/gojsonschema"
	"log/slog"
	"regexp"
	"strings"
)

// ErrNoObjects is returned when raw text contains nothing that even looks like a JSON object.
var ErrNoObjects = errors.NewSentinel("no JSON objects found in response")

var flatObjectPattern = regexp.MustCompile(`\{[^}]+\}`)

// Result holds the recovered objects in the order they appeared in the text.
type Result struct {
	Objects []json.RawMessage
	// Candidates is the number of brace-delimited fragments found.
	Candidates int
	// Skipped is the number of fragments that did not parse or lacked a required field.
	Skipped int
}

// Extractor finds flat JSON objects that carry a truthy value for every required field.
//
// Truthy means present and not null, false, 0 or the empty string.
type Extractor struct {
	schema *gojsonschema.Schema
	logger *slog.Logger
}

// NewExtractor compiles the validation schema for the required fields.
func NewExtractor(logger *slog.Logger, required ...string) (*Extractor, error) {
	properties := make(map[string]any, len(required))
	for _, field := range required {
		properties[field] = map[string]any{
			"not": map[string]any{
				"enum": []any{nil, false, 0, ""},
			},
		}
	}
	schemaDoc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schemaDoc["required"] = required
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaDoc))
	if err != nil {
		return nil, errors.Wrap(err, "compile salvage schema")
	}
	return &Extractor{
		schema: schema,
		logger: logger,
	}, nil
}

// Extract scans raw for flat JSON objects and returns the ones that validate.
//
// ErrNoObjects is returned only when not a single brace-delimited fragment exists. Fragments that fail to parse or
// validate are logged and skipped, so an empty Result without error is possible.
func (e *Extractor) Extract(ctx context.Context, raw string) (Result, error) {
	matches := flatObjectPattern.FindAllString(raw, -1)
	if len(matches) == 0 {
		return Result{}, errors.Wrap(ErrNoObjects, "match flat objects", slog.Int("length", len(raw)))
	}

	result := Result{
		Objects:    make([]json.RawMessage, 0, len(matches)),
		Candidates: len(matches),
		Skipped:    0,
	}
	for i, fragment := range matches {
		if err := e.validate(fragment); err != nil {
			result.Skipped++
			e.logger.LogAttrs(ctx, slog.LevelWarn, "skipping JSON fragment",
				slog.Int("index", i), errors.SlogError(err))
			continue
		}
		result.Objects = append(result.Objects, json.RawMessage(fragment))
	}
	return result, nil
}

func (e *Extractor) validate(fragment string) error {
	var doc any
	if err := json.Unmarshal([]byte(fragment), &doc); err != nil {
		return errors.Wrap(err, "parse fragment")
	}
	res, err := e.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Wrap(err, "validate fragment")
	}
	if !res.Valid() {
		descriptions := make([]string, len(res.Errors()))
		for i, desc := range res.Errors() {
			descriptions[i] = desc.String()
		}
		return errors.New("incomplete object", slog.String("violations", strings.Join(descriptions, "; ")))
	}
	return nil
}
