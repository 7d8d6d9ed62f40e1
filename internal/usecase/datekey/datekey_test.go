package datekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize_FilenameForm(t *testing.T) {
	// MM-DD-YYYY record filenames are reassembled as YYYY-MM-DD
	assert.Equal(t, "2022-01-06", Canonicalize("01-06-2022.csv"))
	assert.Equal(t, "2024-11-30", Canonicalize("11-30-2024.csv"))
}

func TestCanonicalize_AlreadyCanonical(t *testing.T) {
	assert.Equal(t, "2023-04-05", Canonicalize("2023-04-05"))
	assert.Equal(t, "2023-04-05", Canonicalize("2023-04-05.csv"))
}

func TestCanonicalize_ZeroPadsMonthAndDay(t *testing.T) {
	assert.Equal(t, "2022-01-06", Canonicalize("1-6-2022"))
	assert.Equal(t, "2022-12-06", Canonicalize("12-6-2022.csv"))
}

func TestCanonicalize_NoSeparatorPassesThrough(t *testing.T) {
	// Keys without dashes are passed through verbatim; the caller
	// decides what to do with them.
	assert.Equal(t, "20220106", Canonicalize("20220106"))
	assert.Equal(t, "latest", Canonicalize("latest.csv"))
}

func TestCanonicalize_UnparseableYieldsEmpty(t *testing.T) {
	assert.Equal(t, "", Canonicalize(""))
	assert.Equal(t, "", Canonicalize(".csv"))
	assert.Equal(t, "", Canonicalize("01-06"))
	assert.Equal(t, "", Canonicalize("1-2-3-4"))
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []string{"01-06-2022.csv", "2023-04-05", "20220106", "1-6-2022"}
	for _, in := range inputs {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once), "canonical form of %q must be a fixed point", in)
	}
}

func TestCanonicalize_ScenarioB(t *testing.T) {
	raw := []string{"01-06-2022.csv", "2023-04-05"}
	got := make([]string, len(raw))
	for i, key := range raw {
		got[i] = Canonicalize(key)
	}
	assert.Equal(t, []string{"2022-01-06", "2023-04-05"}, got)
}
