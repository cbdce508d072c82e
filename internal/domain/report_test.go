package domain

import "testing"

func TestReportStreams(t *testing.T) {
	rep := NewReport("sources/lu.geojson")

	if rep.RunID == "" {
		t.Error("RunID should be assigned")
	}
	if rep.Source != "sources/lu.geojson" {
		t.Errorf("Source = %q", rep.Source)
	}
	if rep.Invalid() {
		t.Error("fresh report should not be invalid")
	}

	rep.Goodf("checked %d layers", 3)
	rep.Warnf("style %q not advertised", "night")
	if rep.Invalid() {
		t.Error("warnings alone must not mark the report invalid")
	}

	rep.Errorf("layer %q missing", "base")
	if !rep.Invalid() {
		t.Error("an error must mark the report invalid")
	}

	if len(rep.Good) != 1 || rep.Good[0] != "checked 3 layers" {
		t.Errorf("Good = %v", rep.Good)
	}
	if len(rep.Warnings) != 1 || len(rep.Errors) != 1 {
		t.Errorf("Warnings = %v, Errors = %v", rep.Warnings, rep.Errors)
	}
}
