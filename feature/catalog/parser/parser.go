// Package parser implements the YAML descriptor parser that turns raw
// location payloads into catalog entities.
package parser

import (
	"fmt"

	"catalog-manager/feature/catalog/ingest"
	"catalog-manager/feature/catalog/models"

	"gopkg.in/yaml.v3"
)

// Parser parses YAML entity descriptors. It implements
// ingest.DescriptorParser.
type Parser struct{}

// New creates a descriptor parser.
func New() *Parser {
	return &Parser{}
}

// Parse decodes and validates one descriptor payload. Validation
// failures carry the entity name when the descriptor got far enough to
// declare one, so refresh failures can be attributed in the update log.
func (p *Parser) Parse(payload []byte) (*models.Entity, error) {
	var entity models.Entity
	if err := yaml.Unmarshal(payload, &entity); err != nil {
		return nil, &ingest.ParseError{Err: fmt.Errorf("malformed descriptor: %w", err)}
	}

	name := ""
	if entity.Metadata != nil {
		name = entity.Metadata.Name
	}

	if err := validate(&entity); err != nil {
		return nil, &ingest.ParseError{EntityName: name, Err: err}
	}
	return &entity, nil
}

func validate(entity *models.Entity) error {
	if entity.APIVersion == "" {
		return fmt.Errorf("descriptor has no apiVersion")
	}
	if entity.Kind == "" {
		return fmt.Errorf("descriptor has no kind")
	}
	md := entity.Metadata
	if md == nil || md.Name == "" {
		return fmt.Errorf("descriptor has no metadata.name")
	}

	// uid, etag and generation are assigned by the store; a descriptor
	// that declares them is lying about identity it does not own.
	if md.UID != "" || md.Etag != "" || md.Generation != 0 {
		return fmt.Errorf("descriptor must not declare uid, etag or generation")
	}
	return nil
}
