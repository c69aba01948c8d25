package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro_dashboard_backend/models"
)

func obs(value string) models.Observation {
	return models.Observation{Value: value}
}

func TestMergePreservesUntouchedKeys(t *testing.T) {
	s := New()
	s.Merge(models.CategoryRates, map[string]models.Observation{
		"a": obs("1"),
		"b": obs("2"),
	})
	s.Merge(models.CategoryRates, map[string]models.Observation{
		"b": obs("3"),
		"c": obs("4"),
	})

	got := s.Read(models.CategoryRates)
	assert.Equal(t, "1", got["a"].Value)
	assert.Equal(t, "3", got["b"].Value)
	assert.Equal(t, "4", got["c"].Value)
}

func TestMergeIsIdempotent(t *testing.T) {
	s := New()
	result := map[string]models.Observation{
		"sofr": obs("3.92"),
		"fed":  obs("4.50"),
	}

	s.Merge(models.CategoryRates, result)
	first := s.Read(models.CategoryRates)
	s.Merge(models.CategoryRates, result)
	second := s.Read(models.CategoryRates)

	assert.Equal(t, first, second)
}

func TestReadUnpopulatedCategoryIsEmptyNotNil(t *testing.T) {
	s := New()
	got := s.Read(models.CategoryEconomy)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReplaceHistoryRejectsEmpty(t *testing.T) {
	s := New()
	prior := map[string]models.HistorySeries{
		"fed_funds": {Dates: []string{"2025-01-01"}, Values: []float64{4.5}},
	}
	require.True(t, s.ReplaceHistory(prior))

	assert.False(t, s.ReplaceHistory(nil))
	assert.False(t, s.ReplaceHistory(map[string]models.HistorySeries{}))
	assert.Equal(t, prior, s.ReadHistory())
}

func TestReplaceHistoryIsFullSwapNotUnion(t *testing.T) {
	s := New()
	s.ReplaceHistory(map[string]models.HistorySeries{
		"fed_funds": {Dates: []string{"2025-01-01"}, Values: []float64{4.5}},
		"us_10y":    {Dates: []string{"2025-01-01"}, Values: []float64{4.1}},
	})
	s.ReplaceHistory(map[string]models.HistorySeries{
		"fed_funds": {Dates: []string{"2025-02-01"}, Values: []float64{4.25}},
	})

	got := s.ReadHistory()
	assert.Len(t, got, 1)
	assert.NotContains(t, got, "us_10y")
	assert.Equal(t, []string{"2025-02-01"}, got["fed_funds"].Dates)
}

func TestReadReturnsCopy(t *testing.T) {
	s := New()
	s.Merge(models.CategoryStocks, map[string]models.Observation{"vix": obs("15.42")})

	snapshot := s.Read(models.CategoryStocks)
	snapshot["vix"] = obs("mutated")

	got, ok := s.Get(models.CategoryStocks, "vix")
	require.True(t, ok)
	assert.Equal(t, "15.42", got.Value)
}

func TestConcurrentMergeAndRead(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Merge(models.CategoryExchange, map[string]models.Observation{"dxy": obs("98.99")})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Read(models.CategoryExchange)
			}
		}()
	}
	wg.Wait()

	got, ok := s.Get(models.CategoryExchange, "dxy")
	require.True(t, ok)
	assert.Equal(t, "98.99", got.Value)
}
