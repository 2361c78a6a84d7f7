package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// WellnessMetric is one of the ten fixed self-rating dimensions. The set of
// metric ids is static for the lifetime of the application; deployments may
// only override display fields through a catalog file.
type WellnessMetric struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

var defaultMetrics = []WellnessMetric{
	{ID: "sleep", Name: "Sleep", Description: "Quality and duration of last night's sleep", Icon: "moon"},
	{ID: "nutrition", Name: "Nutrition", Description: "How well you ate today", Icon: "apple"},
	{ID: "exercise", Name: "Exercise", Description: "Physical activity and movement", Icon: "dumbbell"},
	{ID: "hydration", Name: "Hydration", Description: "Water intake through the day", Icon: "droplet"},
	{ID: "mindfulness", Name: "Mindfulness", Description: "Time spent present and unplugged", Icon: "lotus"},
	{ID: "social", Name: "Social", Description: "Meaningful connection with others", Icon: "users"},
	{ID: "energy", Name: "Energy", Description: "Overall energy level", Icon: "zap"},
	{ID: "stress", Name: "Stress", Description: "How well you managed stress", Icon: "waves"},
	{ID: "productivity", Name: "Productivity", Description: "Focus and follow-through on your day", Icon: "check-circle"},
	{ID: "mood", Name: "Mood", Description: "Your overall emotional state", Icon: "smile"},
}

// Catalog is an immutable view over the metric list.
type Catalog struct {
	metrics []WellnessMetric
	byID    map[string]WellnessMetric
}

func newCatalog(metrics []WellnessMetric) *Catalog {
	byID := make(map[string]WellnessMetric, len(metrics))
	for _, m := range metrics {
		byID[m.ID] = m
	}
	return &Catalog{metrics: metrics, byID: byID}
}

// Default returns the built-in ten-metric catalog.
func Default() *Catalog {
	return newCatalog(defaultMetrics)
}

// Load reads a YAML override file. The file must cover exactly the same set
// of metric ids as the built-in catalog; only names, descriptions and icons
// may differ. An empty path returns the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var doc struct {
		Metrics []WellnessMetric `yaml:"metrics"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if err := validateOverride(doc.Metrics); err != nil {
		return nil, err
	}
	return newCatalog(doc.Metrics), nil
}

func validateOverride(metrics []WellnessMetric) error {
	if len(metrics) != len(defaultMetrics) {
		return fmt.Errorf("catalog override must define exactly %d metrics, got %d", len(defaultMetrics), len(metrics))
	}
	want := make([]string, 0, len(defaultMetrics))
	for _, m := range defaultMetrics {
		want = append(want, m.ID)
	}
	got := make([]string, 0, len(metrics))
	for _, m := range metrics {
		if m.Name == "" {
			return fmt.Errorf("catalog metric %q missing name", m.ID)
		}
		got = append(got, m.ID)
	}
	sort.Strings(want)
	sort.Strings(got)
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("catalog override changes the metric id set: want %v", want)
		}
	}
	return nil
}

// Metrics returns the metrics in display order.
func (c *Catalog) Metrics() []WellnessMetric {
	out := make([]WellnessMetric, len(c.metrics))
	copy(out, c.metrics)
	return out
}

// Get looks a metric up by id.
func (c *Catalog) Get(id string) (WellnessMetric, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Size is the number of metrics a complete daily submission must cover.
func (c *Catalog) Size() int {
	return len(c.metrics)
}

// IDs returns the metric ids in display order.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.metrics))
	for _, m := range c.metrics {
		out = append(out, m.ID)
	}
	return out
}
