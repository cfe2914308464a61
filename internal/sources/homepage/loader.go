package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var (
	// A template that is the whole value of a key: keep the YAML valid.
	wholeValueTemplate = regexp.MustCompile(`(?m)(:[ \t]*)\{\{[^}]+\}\}[ \t]*$`)
	anyTemplate        = regexp.MustCompile(`\{\{[^}]+\}\}`)
)

// LoadBookmarks reads and parses a bookmarks.yaml file.
func LoadBookmarks(path string) (BookmarksConfig, error) {
	var cfg BookmarksConfig
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadServices reads and parses a services.yaml file.
func LoadServices(path string) (ServicesConfig, error) {
	var cfg ServicesConfig
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = stripTemplateVariables(data)

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// stripTemplateVariables removes Homepage template variables.
// Example: href: {{HOMEPAGE_VAR_URL}} -> href: ""
func stripTemplateVariables(data []byte) []byte {
	data = wholeValueTemplate.ReplaceAll(data, []byte(`${1}""`))
	return anyTemplate.ReplaceAll(data, nil)
}
