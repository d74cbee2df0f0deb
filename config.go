package xmlsec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IDAttribute names an attribute that acts as a same-document identifier:
// every element matching the qualified name gets the named attribute
// registered in the identifier registry before signing.
type IDAttribute struct {
	// Element is the local name of the carrying element.
	Element string `yaml:"element"`

	// Namespace is the element's namespace URI; empty means no namespace.
	Namespace string `yaml:"namespace"`

	// Attribute is the local name of the identifier attribute.
	Attribute string `yaml:"attribute"`
}

// Config describes one signing pass.
type Config struct {
	// KeyFile is the PEM private key path (used by the CLI; library
	// callers pass a key handle directly).
	KeyFile string `yaml:"key_file"`

	// KeyName is the optional human-readable key name, written into an
	// empty KeyInfo/KeyName slot when the template carries one.
	KeyName string `yaml:"key_name"`

	// NamespaceBindings is the whitespace-separated "prefix=uri" list for
	// the template query, e.g. "ds=http://www.w3.org/2000/09/xmldsig#".
	NamespaceBindings string `yaml:"namespace_bindings"`

	// TemplateQuery selects the signature template nodes. Empty means
	// the built-in search for dsig Signature elements.
	TemplateQuery string `yaml:"template_query"`

	// IDAttributes are registered before signing so "#id" references
	// resolve without schema-declared ID typing.
	IDAttributes []IDAttribute `yaml:"id_attributes"`

	// ContinueOnFailure processes remaining templates after a failed one
	// instead of aborting the pass.
	ContinueOnFailure bool `yaml:"continue_on_failure"`
}

// LoadConfig loads a YAML signing configuration from a file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural requirements the YAML schema cannot express.
func (c *Config) Validate() error {
	for i, a := range c.IDAttributes {
		if a.Element == "" {
			return fmt.Errorf("id_attributes[%d]: element is required", i)
		}
		if a.Attribute == "" {
			return fmt.Errorf("id_attributes[%d]: attribute is required", i)
		}
	}
	return nil
}
