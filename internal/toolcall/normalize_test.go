package toolcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArgs(t *testing.T) {
	got := NormalizeArgs(map[string]any{
		"start_date":    "2026-09-01",
		"max_crew_size": 4,
		"location":      "Nice",
	})
	assert.Equal(t, map[string]any{
		"startDate":   "2026-09-01",
		"maxCrewSize": 4,
		"location":    "Nice",
	}, got)
}

func TestSnakeToCamel(t *testing.T) {
	cases := map[string]string{
		"start_date":    "startDate",
		"a_b_c":         "aBC",
		"already":       "already",
		"__x":           "x",
		"trailing_":     "trailing",
		"risk_level":    "riskLevel",
		"_":             "_",
	}
	for in, want := range cases {
		assert.Equal(t, want, snakeToCamel(in), "input %q", in)
	}
}

func TestNormalizeDateArgsExplicitFieldsWin(t *testing.T) {
	got := NormalizeDateArgs(map[string]any{
		"startDate": " 2026-09-01 ",
		"endDate":   "2026-09-10",
		"date":      "2025-01-01 to 2025-01-02",
	})
	assert.Equal(t, DateRange{StartDate: "2026-09-01", EndDate: "2026-09-10"}, got)
}

func TestNormalizeDateArgsRange(t *testing.T) {
	for _, date := range []string{
		"2026-09-01 to 2026-09-10",
		"2026-09-01 - 2026-09-10",
		"2026-09-01-2026-09-10",
	} {
		got := NormalizeDateArgs(map[string]any{"date": date})
		assert.Equal(t, DateRange{StartDate: "2026-09-01", EndDate: "2026-09-10"}, got, "input %q", date)
	}
}

func TestNormalizeDateArgsSingleDate(t *testing.T) {
	got := NormalizeDateArgs(map[string]any{"date": "around 2026-09-01 if possible"})
	assert.Equal(t, DateRange{StartDate: "2026-09-01"}, got)
}

func TestNormalizeDateArgsEmpty(t *testing.T) {
	assert.Equal(t, DateRange{}, NormalizeDateArgs(map[string]any{}))
	assert.Equal(t, DateRange{}, NormalizeDateArgs(map[string]any{"date": "next summer"}))
	assert.Equal(t, DateRange{}, NormalizeDateArgs(map[string]any{"date": 42}))
}

func TestNormalizeLocationArgs(t *testing.T) {
	assert.Equal(t, "Nice", NormalizeLocationArgs(map[string]any{"location": " Nice "}))
	assert.Equal(t, "Palma", NormalizeLocationArgs(map[string]any{"location": "", "query": "Palma"}))
	assert.Equal(t, "Ajaccio", NormalizeLocationArgs(map[string]any{"departureDescription": "Ajaccio"}))
	assert.Equal(t, "", NormalizeLocationArgs(map[string]any{"location": "   "}))
	assert.Equal(t, "", NormalizeLocationArgs(map[string]any{"location": 7}))
	assert.Equal(t, "", NormalizeLocationArgs(map[string]any{}))
}
