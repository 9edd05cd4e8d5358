package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Comprehensive Data Visualizations Dashboard", c.Title)
	assert.Contains(t, c.Description, "displayed in a grid layout.")

	var keys []string
	for _, spec := range c.Charts {
		keys = append(keys, spec.Key)
	}
	assert.Equal(t, []string{
		"1.1", "1.2", "1.3", "2.1", "2.2", "3.1", "3.2", "4.1", "4.2", "5.1",
		"5.2", "6.1", "6.2", "7.1", "7.2", "8.1", "8.2", "9.1", "9.2",
	}, keys)
}

func TestDefaultEntries(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	grouped, ok := c.Lookup("2.1")
	require.True(t, ok)
	assert.Equal(t, models.KindGroupedBar, grouped.Kind)
	assert.True(t, grouped.GroupBySum)
	assert.Equal(t, "total_registered_users", grouped.Panels[0].SortColumn())
	assert.Equal(t, []string{"total_registered_users", "total_app_opens"}, grouped.Measures())

	lines, ok := c.Lookup("3.1")
	require.True(t, ok)
	require.NotNil(t, lines.Period)
	assert.Equal(t, []string{"year", "quarter", "total_premium_count", "total_premium_amount"}, lines.SourceColumns())

	userEngagement, ok := c.Lookup("2.2")
	require.True(t, ok)
	assert.Equal(t, "User Engagement: Registered Users by Device Brand (Karnataka, 2021)", userEngagement.Title)

	// Top-N limits follow the titles.
	for _, spec := range c.Charts {
		switch {
		case strings.HasPrefix(spec.Title, "Top 5 "):
			assert.Equal(t, 5, spec.Limit, spec.Key)
		case strings.HasPrefix(spec.Title, "Top 10 "):
			assert.Equal(t, 10, spec.Limit, spec.Key)
		default:
			assert.Zero(t, spec.Limit, spec.Key)
		}
	}

	groupBy := 0
	for _, spec := range c.Charts {
		if spec.GroupBySum {
			groupBy++
		}
	}
	assert.Equal(t, 2, groupBy)

	_, ok = c.Lookup("10.1")
	assert.False(t, ok)
}

const validChart = `
  - key: "a"
    title: A
    kind: bar
    category: {name: state, label: State}
    panels:
      - title: A
        y_label: Y
        series: [{measure: m}]
`

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", ``, "no charts"},
		{"unknown field", "charts:\n  - key: a\n    colour: red\n", "colour"},
		{"duplicate key", "charts:" + validChart + validChart, "duplicate key"},
		{"unknown kind", "charts:" + strings.Replace(validChart, "kind: bar", "kind: pie", 1), `unknown kind "pie"`},
		{"panel count", "charts:" + strings.Replace(validChart, "kind: bar", "kind: dual-bar", 1), "needs 2 panel(s)"},
		{"grouped series", "charts:" + strings.Replace(validChart, "kind: bar", "kind: grouped-bar", 1), "at least two series"},
		{"negative limit", "charts:" + strings.Replace(validChart, "kind: bar", "kind: bar\n    limit: -1", 1), "limit must not be negative"},
		{"no measure", "charts:" + strings.Replace(validChart, "{measure: m}", "{name: x}", 1), "measure is required"},
		{"no series", "charts:" + strings.Replace(validChart, "[{measure: m}]", "[]", 1), "at least one series"},
		{"bad colour", "charts:" + strings.Replace(validChart, "{measure: m}", "{measure: m, color: mauve}", 1), "mauve"},
		{"line without period", `charts:
  - key: "l"
    title: L
    kind: dual-line
    category: {name: t, label: T}
    panels:
      - {title: a, y_label: y, series: [{measure: m}]}
      - {title: b, y_label: y, series: [{measure: n}]}
`, "requires a period"},
		{"missing title", "charts:" + strings.Replace(validChart, "title: A\n    kind", "kind", 1), "title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseReportsEveryProblem(t *testing.T) {
	bad := strings.Replace(validChart, "kind: bar", "kind: bar\n    limit: -1", 1)
	bad = strings.Replace(bad, "{measure: m}", "{name: x}", 1)
	_, err := Parse([]byte("charts:" + bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit must not be negative")
	assert.Contains(t, err.Error(), "measure is required")
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Charts, 19)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Mine\ncharts:"+validChart), 0644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Mine", c.Title)
	assert.Len(t, c.Charts, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
