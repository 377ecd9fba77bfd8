package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVDecimalCommas(t *testing.T) {
	in := strings.Join([]string{
		"-20,42;-43,85;-20,10;-43,90;12,5",
		"-20,42;-43,85;-20,30;-43,70;7,25",
	}, "\n")

	data, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, data.Assets, 2)
	assert.Len(t, data.Bases, 1)
	assert.InDelta(t, 12.5, data.Dist[0][0], 1e-9)
	assert.InDelta(t, 7.25, data.Dist[1][0], 1e-9)
}

func TestParseCSVDeduplicatesByTolerance(t *testing.T) {
	// Same asset with sub-millidegree jitter, seen from two bases.
	in := strings.Join([]string{
		"-20,42;-43,85;-20,1000;-43,9000;10,0",
		"-20,15;-43,87;-20,1004;-43,9003;20,0",
	}, "\n")

	data, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, data.Assets, 1)
	assert.Len(t, data.Bases, 2)
	assert.InDelta(t, 10.0, data.Dist[0][0], 1e-9)
	assert.InDelta(t, 20.0, data.Dist[0][1], 1e-9)
}

func TestParseCSVFallbackDistance(t *testing.T) {
	// Two assets and two bases, but only three pairs present: the missing
	// asset1/base0 pair is filled with a computed distance.
	in := strings.Join([]string{
		"-20,00;-44,00;-20,10;-43,90;5,0",
		"-20,50;-44,10;-20,10;-43,90;6,0",
		"-20,50;-44,10;-20,40;-44,20;7,0",
	}, "\n")

	data, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, data.Assets, 2)
	require.Len(t, data.Bases, 2)

	assert.InDelta(t, 5.0, data.Dist[0][0], 1e-9)
	assert.InDelta(t, 6.0, data.Dist[0][1], 1e-9)
	assert.InDelta(t, 7.0, data.Dist[1][1], 1e-9)
	// asset 1 to base 0: roughly 40km apart, definitely not zero.
	assert.Greater(t, data.Dist[1][0], 10.0)
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	in := strings.Join([]string{
		"lat_base;lon_base;lat_ativo;lon_ativo;distancia",
		"-20,00;-44,00;-20,10;-43,90;5,0",
		"-20,00;-44,00;not;a;number",
		"short;row",
	}, "\n")

	data, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, data.Assets, 1)
	assert.Len(t, data.Bases, 1)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseCSV(strings.NewReader("a;b;c;d;e\n"))
	assert.Error(t, err)
}
