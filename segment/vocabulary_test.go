package segment

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleVocabulary = `
rules:
  - keyword: restricted
    group: marker
    one_shot: true
  - keyword: programme/project status report
    group: status
  - keyword: description
    group: description
  - keyword: report parameters
    group: parameters
`

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(sampleVocabulary))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if len(config.Rules) != 4 {
		t.Fatalf("Expected 4 rules, got %d", len(config.Rules))
	}
	if !config.Rules[0].OneShot {
		t.Error("Expected first rule to be one-shot")
	}
	if config.Rules[0].Group != "marker" {
		t.Errorf("Expected group %q, got %q", "marker", config.Rules[0].Group)
	}
	if config.Rules[3].Keyword != "report parameters" {
		t.Errorf("Expected keyword %q, got %q", "report parameters", config.Rules[3].Keyword)
	}
}

func TestParseConfigPreservesRuleOrder(t *testing.T) {
	config, err := ParseConfig([]byte(sampleVocabulary))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	want := []string{"restricted", "programme/project status report", "description", "report parameters"}
	for i, keyword := range want {
		if config.Rules[i].Keyword != keyword {
			t.Errorf("Rule %d: expected keyword %q, got %q", i, keyword, config.Rules[i].Keyword)
		}
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "rules: ["},
		{"no rules", "rules: []"},
		{"empty keyword", "rules:\n  - keyword: \"\"\n    group: x"},
		{"empty group", "rules:\n  - keyword: x"},
	}

	for _, tt := range tests {
		if _, err := ParseConfig([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	if err := os.WriteFile(path, []byte(sampleVocabulary), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(config.Rules) != 4 {
		t.Errorf("Expected 4 rules, got %d", len(config.Rules))
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
