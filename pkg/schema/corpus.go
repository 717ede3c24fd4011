// Package schema provides the database schema reference data and the
// retriever that selects relevant schema documentation for a question.
package schema

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed corpus.yaml
var corpusYAML []byte

// Document is one entry of schema documentation. Table documents carry the
// column list; concept documents may carry a reusable SQL fragment in
// QueryPattern.
type Document struct {
	ID           string   `yaml:"id" json:"id"`
	Text         string   `yaml:"document" json:"document"`
	Table        string   `yaml:"table,omitempty" json:"table,omitempty"`
	Type         string   `yaml:"type" json:"type"`
	Columns      []string `yaml:"columns,omitempty" json:"columns,omitempty"`
	Aliases      []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	QueryPattern string   `yaml:"query_pattern,omitempty" json:"query_pattern,omitempty"`
}

type corpusFile struct {
	Documents []Document `yaml:"documents"`
}

// LoadCorpus parses the embedded documentation corpus.
func LoadCorpus() ([]Document, error) {
	var f corpusFile
	if err := yaml.Unmarshal(corpusYAML, &f); err != nil {
		return nil, fmt.Errorf("parse schema corpus: %w", err)
	}
	if len(f.Documents) == 0 {
		return nil, fmt.Errorf("schema corpus is empty")
	}
	return f.Documents, nil
}
