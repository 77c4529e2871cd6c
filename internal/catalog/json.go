package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/cramkit/internal/store"
)

// SupportedMajor is the catalog schema major version this build reads.
const SupportedMajor = "v1"

//go:embed schema.json
var schemaJSON []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

type jsonItem struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	Category   string `json:"category"`
	Weight     *int   `json:"weight"`
	Difficulty *int   `json:"difficulty"`
	Prompt     string `json:"prompt"`
}

type jsonTopicWeight struct {
	Category string `json:"category"`
	Topic    string `json:"topic"`
	Weight   int    `json:"weight"`
}

type jsonDocument struct {
	SchemaVersion string            `json:"schema_version"`
	Items         []jsonItem        `json:"items"`
	TopicWeights  []jsonTopicWeight `json:"topic_weights"`
}

// ParseJSON reads a JSON catalog, validating it against the embedded schema
// and checking that schema_version is compatible.
func ParseJSON(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, store.InvalidInput("catalog", "invalid JSON: %v", err)
	}

	sch, err := catalogSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, store.InvalidInput("catalog", "schema validation failed: %v", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, store.InvalidInput("catalog", "decode: %v", err)
	}

	if !semver.IsValid(doc.SchemaVersion) {
		return nil, store.InvalidInput("schema_version", "%q is not a semantic version", doc.SchemaVersion)
	}
	if major := semver.Major(doc.SchemaVersion); major != SupportedMajor {
		return nil, store.InvalidInput("schema_version", "major version %s is not supported (want %s)", major, SupportedMajor)
	}

	out := &Document{
		Items:        make([]store.LearningItem, 0, len(doc.Items)),
		TopicWeights: make([]store.TopicWeight, 0, len(doc.TopicWeights)),
	}
	for _, it := range doc.Items {
		out.Items = append(out.Items, store.LearningItem{
			ID:         it.ID,
			Topic:      it.Topic,
			Category:   it.Category,
			Weight:     intOr(it.Weight, 1),
			Difficulty: intOr(it.Difficulty, 1),
			Prompt:     it.Prompt,
		})
	}
	for _, w := range doc.TopicWeights {
		out.TopicWeights = append(out.TopicWeights, store.TopicWeight(w))
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func catalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://catalog.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
