package statement

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/liasse/internal/model"
)

// document is the on-disk form of a schema.
//
//	statement: income-statement
//	version: "2017"
//	lines:
//	  - {ref: TA, label: Ventes de marchandises, accounts: ["701"], sign: CREDIT_POSITIVE}
//	  - {ref: XA, label: Marge commerciale, sum: [TA, RA, RB]}
type document struct {
	Statement string     `yaml:"statement"`
	Version   string     `yaml:"version,omitempty"`
	Lines     []lineNode `yaml:"lines"`
}

// lineNode is a derived line when Sum is present, otherwise a leaf.
type lineNode struct {
	Ref      string    `yaml:"ref"`
	Label    string    `yaml:"label"`
	Accounts []string  `yaml:"accounts,omitempty,flow"`
	Sign     string    `yaml:"sign,omitempty"`
	Negate   bool      `yaml:"negate,omitempty"`
	Sum      *[]string `yaml:"sum,omitempty,flow"`
}

func (n lineNode) definition() model.LineDefinition {
	if n.Sum != nil {
		return model.Derived{Ref: n.Ref, Label: n.Label, Children: *n.Sum}
	}
	return model.Leaf{
		Ref:      n.Ref,
		Label:    n.Label,
		Prefixes: n.Accounts,
		Sign:     model.Sign(n.Sign),
		Negate:   n.Negate,
	}
}

// Parse decodes and validates a YAML schema artifact.
func Parse(data []byte) (*Schema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if doc.Statement == "" {
		return nil, fmt.Errorf("parsing schema: missing statement name")
	}

	lines := make([]model.LineDefinition, len(doc.Lines))
	for i, n := range doc.Lines {
		lines[i] = n.definition()
	}
	s, err := NewSchema(doc.Statement, lines)
	if err != nil {
		return nil, err
	}
	s.version = doc.Version
	return s, nil
}

// Marshal encodes a schema in the artifact format accepted by Parse.
func Marshal(s *Schema) ([]byte, error) {
	doc := document{Statement: s.name, Version: s.version, Lines: make([]lineNode, len(s.lines))}
	for i, l := range s.lines {
		switch l := l.(type) {
		case model.Leaf:
			doc.Lines[i] = lineNode{Ref: l.Ref, Label: l.Label, Accounts: l.Prefixes, Sign: string(l.Sign), Negate: l.Negate}
		case model.Derived:
			children := l.Children
			if children == nil {
				children = []string{}
			}
			doc.Lines[i] = lineNode{Ref: l.Ref, Label: l.Label, Sum: &children}
		}
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema %s: %w", s.name, err)
	}
	return data, nil
}
