package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasTenFixedMetrics(t *testing.T) {
	c := Default()
	if c.Size() != 10 {
		t.Fatalf("Default().Size()=%d, want 10", c.Size())
	}
	for _, id := range []string{"sleep", "nutrition", "exercise", "hydration", "mindfulness", "social", "energy", "stress", "productivity", "mood"} {
		if _, ok := c.Get(id); !ok {
			t.Fatalf("metric %q missing from default catalog", id)
		}
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if c.Size() != 10 {
		t.Fatalf("Size()=%d, want 10", c.Size())
	}
}

func TestLoadOverrideKeepsIDSet(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.yaml")
	doc := "metrics:\n"
	for _, m := range Default().Metrics() {
		doc += "  - id: " + m.ID + "\n    name: Renamed " + m.Name + "\n    description: d\n    icon: " + m.Icon + "\n"
	}
	if err := os.WriteFile(good, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(good)
	if err != nil {
		t.Fatalf("Load(good) error: %v", err)
	}
	m, ok := c.Get("sleep")
	if !ok || m.Name != "Renamed Sleep" {
		t.Fatalf("override not applied: %+v", m)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("metrics:\n  - id: steps\n    name: Steps\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("Load(bad) accepted a changed metric id set")
	}
}
