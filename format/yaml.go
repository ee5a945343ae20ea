package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/grampa/grammar"
	"github.com/dhamidi/grampa/parse"
)

type YAMLEncoder struct {
	w io.Writer
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(node *parse.Node) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(nodeData(node)); err != nil {
		return err
	}
	return enc.Close()
}

// EncodeDefinition renders a definition with its patterns in canonical
// grammar source form.
func (e *YAMLEncoder) EncodeDefinition(def *grammar.Definition) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(definitionData(def)); err != nil {
		return err
	}
	return enc.Close()
}

type yamlDefine struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type yamlDefinition struct {
	Defines []yamlDefine        `yaml:"defines,omitempty"`
	Entry   []string            `yaml:"entry"`
	Rules   map[string][]string `yaml:"rules,omitempty"`
}

func definitionData(def *grammar.Definition) yamlDefinition {
	data := yamlDefinition{}
	for _, d := range def.Defines {
		data.Defines = append(data.Defines, yamlDefine{Name: d.Name, Value: d.Value.String()})
	}
	data.Entry = patternStrings(def.Entry)
	if len(def.Rules) > 0 {
		data.Rules = make(map[string][]string, len(def.Rules))
		for name, pats := range def.Rules {
			data.Rules[name] = patternStrings(pats)
		}
	}
	return data
}

func patternStrings(pats []grammar.Pattern) []string {
	result := make([]string, len(pats))
	for i, p := range pats {
		result[i] = p.String()
	}
	return result
}
