package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertSpec struct {
	Groups []alertGroup `yaml:"groups"`
}

func TestAlertRulesAreWellFormed(t *testing.T) {
	path := filepath.Join("..", "..", "deploy", "prometheus", "alerts", "anitrack.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read alert rules: %v", err)
	}

	var spec alertSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatalf("parse alert rules: %v", err)
	}
	if len(spec.Groups) == 0 {
		t.Fatal("expected at least one alert group")
	}

	seen := map[string]bool{}
	for _, group := range spec.Groups {
		for _, rule := range group.Rules {
			if rule.Alert == "" || rule.Expr == "" {
				t.Fatalf("group %q has a rule missing alert name or expr", group.Name)
			}
			if seen[rule.Alert] {
				t.Fatalf("duplicate alert name %q", rule.Alert)
			}
			seen[rule.Alert] = true
			if rule.Labels["severity"] == "" {
				t.Fatalf("alert %q is missing a severity label", rule.Alert)
			}
			if !strings.Contains(rule.Expr, "anitrack_") {
				t.Fatalf("alert %q does not reference an application metric", rule.Alert)
			}
		}
	}

	if !seen["AuthStoreUnavailable"] {
		t.Fatal("expected an AuthStoreUnavailable alert")
	}
}
