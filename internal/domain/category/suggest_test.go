package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  int
	}{
		{name: "identical", a: "STARBUCKS 001", b: "STARBUCKS 001", min: 100},
		{name: "store number variation", a: "STARBUCKS 002", b: "STARBUCKS 001", min: 70},
		{name: "containment", a: "STARBUCKS STORE 808 SEATTLE", b: "STARBUCKS", min: 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.GreaterOrEqual(t, similarity(tt.a, tt.b), tt.min)
		})
	}

	t.Run("unrelated strings stay low", func(t *testing.T) {
		assert.Less(t, similarity("SHELL OIL 5731", "NETFLIX.COM"), 70)
	})
}

func TestSuggest(t *testing.T) {
	exemplars := []Exemplar{
		{Description: "STARBUCKS 001", Category: "Eating out"},
		{Description: "SHELL OIL 5731", Category: "Gas"},
	}

	t.Run("variations inherit the exemplar category", func(t *testing.T) {
		got := suggest([]string{"STARBUCKS 002"}, exemplars, 0)
		require.Len(t, got, 1)
		assert.Equal(t, "Eating out", got[0].Category)
		assert.Equal(t, "STARBUCKS 001", got[0].MatchedWith)
	})

	t.Run("unrelated descriptions get nothing", func(t *testing.T) {
		got := suggest([]string{"ZZQX 9# UNKNOWN VENDOR"}, exemplars, 0)
		assert.Empty(t, got)
	})

	t.Run("results sort by score", func(t *testing.T) {
		got := suggest([]string{"SHELL OIL 9999", "SHELL OIL 5731"}, exemplars, 0)
		require.Len(t, got, 2)
		assert.Equal(t, 100, got[0].Score)
		assert.Equal(t, "SHELL OIL 5731", got[0].Description)
	})

	t.Run("no exemplars means no suggestions", func(t *testing.T) {
		got := suggest([]string{"STARBUCKS 002"}, nil, 0)
		assert.Empty(t, got)
	})
}
