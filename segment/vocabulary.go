package segment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseConfig reads a vocabulary from YAML data. The file carries an ordered
// rule list; rule order in the file is the match priority:
//
//	rules:
//	  - keyword: restricted
//	    group: marker
//	    one_shot: true
//	  - keyword: programme/project status report
//	    group: status
//	  - keyword: description
//	    group: description
//	  - keyword: report parameters
//	    group: parameters
func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	if len(config.Rules) == 0 {
		return Config{}, fmt.Errorf("vocabulary has no rules")
	}
	for i, rule := range config.Rules {
		if rule.Keyword == "" {
			return Config{}, fmt.Errorf("rule %d: keyword must not be empty", i)
		}
		if rule.Group == "" {
			return Config{}, fmt.Errorf("rule %d (%q): group must not be empty", i, rule.Keyword)
		}
	}

	return config, nil
}

// LoadConfig reads a vocabulary from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return ParseConfig(data)
}
