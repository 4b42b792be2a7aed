package services

import (
	"bytes"
	"strings"
	"testing"

	"fitness-analyzer/models"
	"fitness-analyzer/utils"
)

func newTestLogger() *utils.Logger { return utils.NopLogger() }

func TestCleanerParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"100000", 100000, true},
		{"100 000", 100000, true},
		{"100, 000", 100000, true},
		{"100,000", 100000, true},
		{"100,50", 100.5, true},
		{"1,234.56", 1234.56, true},
		{"1000.20", 1000.2, true},
		{"2 899 zł", 2899, true},
		{"2 899 zł", 2899, true},
		{"54 900 zł do negocjacji", 54900, true},
		{"", 0, false},
		{"   ", 0, false},
		{"gtrfed", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f, %v; want %.2f, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCleanerParseMileage(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{" 290 000 km", 290000, true},
		{"150000", 150000, true},
		{"150k", 150000, true},
		{"12.5K", 12500, true},
		{"120 tys", 120000, true},
		{"87 500 km", 87500, true},
		{"", 0, false},
		{"brak", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseMileage(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseMileage(%q) = %.0f, %v; want %.0f, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCleanerFillsParsedValues(t *testing.T) {
	c := NewCleaner(newTestLogger(), false)
	cleaned := c.Clean([]*models.Listing{
		{Title: "  Corolla   1.4 ", Price: "2 899 zł", Mileage: " 290 000 km", Link: " https://www.olx.pl/d/oferta/1 "},
	})

	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(cleaned))
	}
	l := cleaned[0]
	if l.Title != "Corolla 1.4" {
		t.Errorf("Title: got %q", l.Title)
	}
	if l.Link != "https://www.olx.pl/d/oferta/1" {
		t.Errorf("Link: got %q", l.Link)
	}
	if l.PriceValue != 2899 || l.MileageValue != 290000 {
		t.Errorf("parsed: got price=%v mileage=%v", l.PriceValue, l.MileageValue)
	}
}

func TestCleanerKeepsDuplicatesByDefault(t *testing.T) {
	c := NewCleaner(newTestLogger(), false)
	raw := []*models.Listing{
		{Title: "A", Link: "https://www.otomoto.pl/1"},
		{Title: "B", Link: "https://www.otomoto.pl/1"},
	}

	if got := len(c.Clean(raw)); got != 2 {
		t.Errorf("expected 2 listings without dedupe, got %d", got)
	}
}

func TestCleanerDeduplicatesLink(t *testing.T) {
	c := NewCleaner(newTestLogger(), true)
	raw := []*models.Listing{
		{Title: "A", Link: "https://www.otomoto.pl/1"},
		{Title: "B", Link: "https://www.otomoto.pl/1"},
		{Title: "C", Link: ""},
		{Title: "D", Link: ""},
		nil,
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 3 {
		t.Fatalf("expected 3 listings after deduplication, got %d", len(cleaned))
	}
	if cleaned[0].Title != "A" {
		t.Errorf("first occurrence should win, got %q", cleaned[0].Title)
	}
}

func TestCleanerLogsUniqueLinks(t *testing.T) {
	var out bytes.Buffer
	c := NewCleaner(utils.NewLoggerTo(&out, &out, utils.LevelInfo), false)
	c.Clean([]*models.Listing{
		{Title: "A", Link: "https://www.otomoto.pl/1"},
		{Title: "B", Link: " https://www.otomoto.pl/1 "},
		{Title: "C", Link: "https://www.otomoto.pl/2"},
		{Title: "D"},
	})

	if !strings.Contains(out.String(), "2 unique links") {
		t.Errorf("expected unique link count in log, got:\n%s", out.String())
	}
}
