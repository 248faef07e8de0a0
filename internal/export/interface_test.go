package export

import (
	"errors"
	"strings"
	"testing"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
	}{
		{"jsonl", "jsonl"},
		{"JSONL", "jsonl"},
		{"md", "md"},
		{"markdown", "md"},
		{"yaml", "yaml"},
		{" yml ", "yaml"},
		{"json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestNewExporter_Unsupported(t *testing.T) {
	for _, format := range []string{"xml", "", "csv"} {
		exporter, err := NewExporter(format)
		if err == nil {
			t.Errorf("NewExporter(%q) expected error, got %T", format, exporter)
			continue
		}
		if !strings.Contains(err.Error(), "jsonl, md, yaml, json") {
			t.Errorf("error %q should list the supported formats", err)
		}
	}
}

func TestExportersMatchFormats(t *testing.T) {
	seen := make(map[string]bool)
	for _, format := range Formats {
		exporter, err := NewExporter(format)
		if err != nil {
			t.Fatalf("listed format %q is not constructible: %v", format, err)
		}
		seen[exporter.Extension()] = true
	}
	if len(seen) != len(Formats) {
		t.Errorf("Formats has %d entries but only %d distinct extensions", len(Formats), len(seen))
	}
}

func TestExporters_NilSession(t *testing.T) {
	for _, format := range Formats {
		exporter, err := NewExporter(format)
		if err != nil {
			t.Fatalf("NewExporter(%q) error = %v", format, err)
		}
		var buf strings.Builder
		if err := exporter.Export(nil, &buf); !errors.Is(err, ErrNoSession) {
			t.Errorf("%s Export(nil) error = %v, want ErrNoSession", format, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s Export(nil) wrote %q", format, buf.String())
		}
	}
}
