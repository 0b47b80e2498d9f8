package main

import (
	"math/rand/v2"
	"testing"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBasin_NestedCounts(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	records := generateBasin(rng, domain.NorthAtlantic, 1971, 2023)

	require.Len(t, records, 53)
	assert.Equal(t, uint16(1971), records[0].Season)
	assert.Equal(t, uint16(2023), records[len(records)-1].Season)
	for _, r := range records {
		assert.Equal(t, domain.NorthAtlantic, r.Basin)
		assert.LessOrEqual(t, r.MajorHurricanes, r.Hurricanes)
		assert.LessOrEqual(t, r.Hurricanes, r.NamedStorms)
		assert.GreaterOrEqual(t, r.NamedStormDays, 0.0)
	}
}

func TestGenerateBasin_Deterministic(t *testing.T) {
	a := generateBasin(rand.New(rand.NewPCG(7, 7)), domain.SouthPacific, 1980, 1990)
	b := generateBasin(rand.New(rand.NewPCG(7, 7)), domain.SouthPacific, 1980, 1990)
	assert.Equal(t, a, b)
}

func TestGenerateBasin_RoundTripsThroughFileFormat(t *testing.T) {
	records := generateBasin(rand.New(rand.NewPCG(3, 3)), domain.NorthIndian, 2000, 2005)

	data, err := domain.EncodeBasinFile(domain.NorthIndian, records)
	require.NoError(t, err)
	parsed, err := domain.ParseBasinFile(domain.NorthIndian, data)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}
