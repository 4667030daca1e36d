package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/foxseedlab/mensetsu/internal/interview"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Categories map[interview.Language]map[interview.Category]string `yaml:"categories"`
	Personas   map[interview.Persona]map[interview.Language]string `yaml:"personas"`
}

// Catalog is the lookup table of persona instruction blocks and category descriptions.
type Catalog struct {
	categories   map[interview.Language]map[interview.Category]string
	instructions map[interview.Persona]map[interview.Language]*template.Template
}

type instructionData struct {
	Name     string
	Category string
}

func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedCatalog)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}
	if len(f.Categories[interview.LanguageRussian]) == 0 {
		return nil, fmt.Errorf("prompt catalog has no %s categories", interview.LanguageRussian)
	}
	if len(f.Personas[interview.PersonaHope]) == 0 {
		return nil, fmt.Errorf("prompt catalog has no %s persona", interview.PersonaHope)
	}
	c := &Catalog{
		categories:   f.Categories,
		instructions: make(map[interview.Persona]map[interview.Language]*template.Template, len(f.Personas)),
	}
	for persona, byLanguage := range f.Personas {
		c.instructions[persona] = make(map[interview.Language]*template.Template, len(byLanguage))
		for language, text := range byLanguage {
			tmpl, err := template.New(string(persona) + "_" + string(language)).Option("missingkey=error").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("parse instruction %s/%s: %w", persona, language, err)
			}
			c.instructions[persona][language] = tmpl
		}
	}
	return c, nil
}

// CategoryDescription falls back to the soft-skills description for unknown categories
// and to the Russian table for unknown languages.
func (c *Catalog) CategoryDescription(category interview.Category, language interview.Language) string {
	table, ok := c.categories[language]
	if !ok {
		table = c.categories[interview.LanguageRussian]
	}
	if desc, ok := table[category]; ok {
		return desc
	}
	return table[interview.CategorySoft]
}

func (c *Catalog) Instruction(persona interview.Persona, language interview.Language, name string, category interview.Category) (string, error) {
	tmpl, descLanguage := c.lookupInstruction(persona, language)
	var b strings.Builder
	err := tmpl.Execute(&b, instructionData{
		Name:     name,
		Category: c.CategoryDescription(category, descLanguage),
	})
	if err != nil {
		return "", fmt.Errorf("render instruction %s/%s: %w", persona, language, err)
	}
	return b.String(), nil
}

// lookupInstruction resolves {persona, language}; a persona locked to one language always
// uses that entry, and an unknown persona behaves like hope.
func (c *Catalog) lookupInstruction(persona interview.Persona, language interview.Language) (*template.Template, interview.Language) {
	byLanguage, ok := c.instructions[persona]
	if !ok {
		persona = interview.PersonaHope
		byLanguage = c.instructions[persona]
	}
	if fixed, ok := persona.FixedLanguage(); ok {
		language = fixed
	}
	if tmpl, ok := byLanguage[language]; ok {
		return tmpl, language
	}
	if tmpl, ok := byLanguage[interview.LanguageRussian]; ok {
		return tmpl, interview.LanguageRussian
	}
	for lang, tmpl := range byLanguage {
		return tmpl, lang
	}
	return template.Must(template.New("empty").Parse("")), language
}
