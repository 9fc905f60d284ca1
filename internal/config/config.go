package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SectionCount is the fixed number of report sections. The step sequence
// (mission details + sections + review + confirmation) is derived from it.
const SectionCount = 7

// Section is one static catalog entry. Catalog entries are configuration,
// not user data; they never change at runtime.
type Section struct {
	ID          string `yaml:"id" json:"id"`
	Icon        string `yaml:"icon" json:"icon"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Config models aar.yml.
type Config struct {
	Product struct {
		Name      string `yaml:"name"`
		ShortName string `yaml:"short_name"`
	} `yaml:"product"`
	Mail struct {
		From       string   `yaml:"from"`
		Recipients []string `yaml:"recipients"`
	} `yaml:"mail"`
	Sections []Section `yaml:"sections"`
}

// Load reads and validates config from a workspace directory.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; generate one with aar config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the built-in default when no config file exists.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Product.Name == "" {
		return fmt.Errorf("config.product.name is required")
	}
	if c.Product.ShortName == "" {
		return fmt.Errorf("config.product.short_name is required")
	}
	if strings.ContainsAny(c.Product.ShortName, " /\\") {
		return fmt.Errorf("config.product.short_name must be filename-safe")
	}
	if c.Mail.From == "" {
		return fmt.Errorf("config.mail.from is required")
	}
	if len(c.Mail.Recipients) == 0 {
		return fmt.Errorf("config.mail.recipients must list at least one address")
	}
	for i, addr := range c.Mail.Recipients {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("config.mail.recipients[%d] is empty", i)
		}
	}
	if len(c.Sections) != SectionCount {
		return fmt.Errorf("config.sections must have exactly %d entries, got %d", SectionCount, len(c.Sections))
	}
	seen := map[string]bool{}
	for i, s := range c.Sections {
		if s.ID == "" {
			return fmt.Errorf("config.sections[%d] has empty id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("config.sections has duplicate id %s", s.ID)
		}
		seen[s.ID] = true
		if s.Title == "" {
			return fmt.Errorf("section %s has empty title", s.ID)
		}
	}
	return nil
}

// SectionIDs returns the catalog identifiers in fixed order.
func (c *Config) SectionIDs() []string {
	ids := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "aar.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the built-in default Config.
func Default() *Config {
	cfg, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `product:
  name: Rescue 10 AAR
  short_name: Rescue10

mail:
  from: Rescue 10 AAR <air1@windwardaviation.com>
  recipients:
    - office@windwardaviation.com

sections:
  - id: incident-summary
    icon: "📋"
    title: Incident Summary
    description: >-
      Brief recap of the call: time of dispatch, location, nature of the
      incident, and overall outcome.

  - id: equipment-preparedness
    icon: "🔧"
    title: Equipment Preparedness
    description: >-
      Were all required equipment and gear available, functional, and
      appropriate for the mission?

  - id: logistics-coordination
    icon: "📍"
    title: Logistics & Operational Coordination
    description: >-
      Evaluation of scene access, patient location, drop/pick-up points, and
      coordination with the first-in company and EMS personnel.

  - id: communications
    icon: "📡"
    title: Communications
    description: >-
      Assessment of internal and external communications, including Fire
      Dispatch, REACH, Coast Guard, intercom use, and any radio issues.

  - id: rescue-scene-management
    icon: "🚁"
    title: Rescue Scene Management
    description: >-
      Review of scene safety, personnel roles, aircraft positioning, and
      patient handling.

  - id: environmental-conditions
    icon: "🌦️"
    title: Environmental Conditions
    description: >-
      Impact of terrain, vegetation, weather, lighting, or other environmental
      challenges on the operation.

  - id: issues-corrective-actions
    icon: "⚠️"
    title: Identified Issues & Corrective Actions
    description: >-
      Document any equipment, communication, or procedural failures. Outline
      corrective steps and follow-up actions required.
`
