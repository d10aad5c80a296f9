package observability

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type ruleFile struct {
	Groups []struct {
		Name  string      `yaml:"name"`
		Rules []alertRule `yaml:"rules"`
	} `yaml:"groups"`
}

const runbookPath = "docs/runbook-console.md"

func repoFile(t *testing.T, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", filepath.FromSlash(rel)))
	require.NoError(t, err)
	return data
}

// runbookAnchors lists the GitHub style anchors of every heading.
func runbookAnchors(t *testing.T) map[string]bool {
	t.Helper()
	strip := regexp.MustCompile(`[^a-z0-9 -]`)
	anchors := make(map[string]bool)
	for _, line := range strings.Split(string(repoFile(t, runbookPath)), "\n") {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		title := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#")))
		anchors[strings.ReplaceAll(strip.ReplaceAllString(title, ""), " ", "-")] = true
	}
	return anchors
}

func TestConsoleAlertRules(t *testing.T) {
	var file ruleFile
	require.NoError(t, yaml.Unmarshal(repoFile(t, "deploy/prometheus/alerts/console.yml"), &file))
	require.Len(t, file.Groups, 1)
	require.Equal(t, "console", file.Groups[0].Name)

	rules := make(map[string]alertRule)
	for _, rule := range file.Groups[0].Rules {
		rules[rule.Alert] = rule
	}
	anchors := runbookAnchors(t)

	for name, severity := range map[string]string{
		"BackendErrorRate":     "critical",
		"BackendLatency":       "warning",
		"ConsoleHighErrorRate": "critical",
	} {
		t.Run(name, func(t *testing.T) {
			rule, ok := rules[name]
			require.True(t, ok, "rule missing")
			assert.Equal(t, severity, rule.Labels["severity"])
			assert.NotEmpty(t, rule.For)
			assert.NotEmpty(t, rule.Annotations["summary"])
			assert.NotEmpty(t, rule.Annotations["description"])
			assert.Contains(t, rule.Expr, "console_")

			path, anchor, found := strings.Cut(rule.Annotations["runbook"], "#")
			require.True(t, found, "runbook link needs an anchor")
			assert.Equal(t, runbookPath, path)
			assert.True(t, anchors[anchor], "runbook has no section %q", anchor)
		})
	}
	assert.Len(t, rules, 3)
}
