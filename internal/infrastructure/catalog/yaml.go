// Package catalog loads the intervention playbook catalog from YAML.
// A default catalog ships embedded in the binary; deployments can point
// the analyzer at their own file to swap interventions without a rebuild.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
	"github.com/veloedu/risk-radar/internal/domain/playbook"
	"github.com/veloedu/risk-radar/internal/domain/shared"
)

//go:embed playbooks.yaml
var defaultCatalog []byte

// YAMLCatalog implements playbook.Catalog over a parsed YAML document.
type YAMLCatalog struct {
	entries []playbook.Entry
}

var _ playbook.Catalog = (*YAMLCatalog)(nil)

// Entries returns the catalog entries in declaration order.
func (c *YAMLCatalog) Entries() []playbook.Entry {
	return c.entries
}

// Load reads the catalog from path, or the embedded default when path is
// empty.
func Load(path string) (*YAMLCatalog, error) {
	raw := defaultCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, shared.WrapError("playbook", "Load", shared.ErrExternalService,
				fmt.Sprintf("reading catalog %s", path), err)
		}
		raw = data
	}
	return Parse(raw)
}

// Parse validates and converts a YAML catalog document.
func Parse(raw []byte) (*YAMLCatalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, shared.WrapError("playbook", "Load", shared.ErrInvalidFormat,
			"parsing catalog YAML", err)
	}
	if len(doc.Playbooks) == 0 {
		return nil, shared.ErrEmptyCatalog
	}

	entries := make([]playbook.Entry, 0, len(doc.Playbooks))
	for i, p := range doc.Playbooks {
		entry, err := p.toEntry()
		if err != nil {
			return nil, shared.WrapError("playbook", "Load", shared.ErrValidation,
				fmt.Sprintf("catalog entry %d (%s)", i, p.ID), err)
		}
		entries = append(entries, entry)
	}

	return &YAMLCatalog{entries: entries}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// YAML document shape
// ──────────────────────────────────────────────────────────────────────────────

type catalogDoc struct {
	Playbooks []playbookDoc `yaml:"playbooks"`
}

type playbookDoc struct {
	ID       string     `yaml:"id"`
	Titulo   string     `yaml:"titulo"`
	Canal    string     `yaml:"canal"`
	Template string     `yaml:"template"`
	Gatilho  triggerDoc `yaml:"gatilho"`
}

type triggerDoc struct {
	Diagnosticos    []string `yaml:"diagnosticos"`
	QuedaMinima     *float64 `yaml:"quedaMinima"`
	PresencaMinima  *float64 `yaml:"presencaMinima"`
	PresencaMaxima  *float64 `yaml:"presencaMaxima"`
	CriticasMinimas *int     `yaml:"criticasMinimas"`
	CriticasMaximas *int     `yaml:"criticasMaximas"`
}

func (p playbookDoc) toEntry() (playbook.Entry, error) {
	for _, field := range []struct{ name, value string }{
		{"id", p.ID},
		{"titulo", p.Titulo},
		{"canal", p.Canal},
		{"template", p.Template},
	} {
		if field.value == "" {
			return playbook.Entry{}, fmt.Errorf("field %q is empty", field.name)
		}
	}

	keys := make([]diagnosis.Key, 0, len(p.Gatilho.Diagnosticos))
	for _, raw := range p.Gatilho.Diagnosticos {
		key := diagnosis.Key(raw)
		if !diagnosis.KnownKey(key) {
			return playbook.Entry{}, fmt.Errorf("unknown diagnosis key %q", raw)
		}
		keys = append(keys, key)
	}

	return playbook.Entry{
		Action: playbook.Action{
			PlaybookID: p.ID,
			Canal:      p.Canal,
			Titulo:     p.Titulo,
			Template:   p.Template,
		},
		Trigger: playbook.Trigger{
			Keys:        keys,
			MinDrop:     p.Gatilho.QuedaMinima,
			MinPresence: p.Gatilho.PresencaMinima,
			MaxPresence: p.Gatilho.PresencaMaxima,
			MinCritical: p.Gatilho.CriticasMinimas,
			MaxCritical: p.Gatilho.CriticasMaximas,
		},
	}, nil
}
