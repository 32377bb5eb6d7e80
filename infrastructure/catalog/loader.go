package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"xpslots/domain/entities"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Tokens []entities.Token `yaml:"tokens"`
}

// Load reads the token catalog from path, or the embedded default when path is empty
func Load(path string) ([]entities.Token, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	tokens, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"path":   path,
		"tokens": len(tokens),
	}).Info("Loaded token catalog")
	return tokens, nil
}

// Default returns the embedded token catalog
func Default() ([]entities.Token, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a YAML catalog document
func Parse(data []byte) ([]entities.Token, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file catalogFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if len(file.Tokens) == 0 {
		return nil, errors.New("catalog is empty")
	}
	if err := entities.ValidateCatalog(file.Tokens); err != nil {
		return nil, err
	}
	return file.Tokens, nil
}
