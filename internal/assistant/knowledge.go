// Package assistant holds the municipal assistant's domain knowledge: canned
// answers, default FAQs, suggested questions and the licence-expiry wording.
package assistant

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed knowledge.yaml
var knowledgeYAML []byte

type Canned struct {
	Topic    string   `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

type FAQ struct {
	Pregunta      string   `yaml:"pregunta"`
	Respuesta     string   `yaml:"respuesta"`
	Categoria     string   `yaml:"categoria"`
	PalabrasClave []string `yaml:"palabras_clave"`
}

type Knowledge struct {
	SystemPrompt string `yaml:"system_prompt"`
	Messages     struct {
		NoLicense string `yaml:"no_license"`
		Generic   string `yaml:"generic"`
	} `yaml:"messages"`
	Canned      []Canned            `yaml:"canned"`
	FAQs        []FAQ               `yaml:"faqs"`
	Suggestions map[string][]string `yaml:"suggestions"`
}

// Load parses the embedded knowledge base.
func Load() (*Knowledge, error) {
	return Parse(knowledgeYAML)
}

func Parse(data []byte) (*Knowledge, error) {
	var k Knowledge
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if k.Messages.Generic == "" || k.Messages.NoLicense == "" {
		return nil, fmt.Errorf("knowledge base is missing fixed messages")
	}
	if _, ok := k.Suggestions["general"]; !ok {
		return nil, fmt.Errorf("knowledge base is missing general suggestions")
	}
	for i := range k.Canned {
		for j, kw := range k.Canned[i].Keywords {
			k.Canned[i].Keywords[j] = Normalize(kw)
		}
	}
	return &k, nil
}

func MustLoad() *Knowledge {
	k, err := Load()
	if err != nil {
		panic(err)
	}
	return k
}

// CannedAnswer returns the answer of the first entry whose keyword occurs in
// question, or the generic message.
func (k *Knowledge) CannedAnswer(question string) string {
	q := Normalize(question)
	for _, c := range k.Canned {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(q, kw) {
				return c.Answer
			}
		}
	}
	return k.Messages.Generic
}

// SuggestedQuestions maps unknown contexts to the general list.
func (k *Knowledge) SuggestedQuestions(context string) []string {
	if qs, ok := k.Suggestions[strings.ToLower(strings.TrimSpace(context))]; ok {
		return qs
	}
	return k.Suggestions["general"]
}
