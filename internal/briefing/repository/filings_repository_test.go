package repository

import (
	"encoding/json"
	"testing"

	"go-stock-briefing/internal/briefing/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdgarHits(t *testing.T) {
	hits := []dto.EdgarHit{
		{Source: dto.EdgarFilingSource{
			Adsh:         "0001045810-26-000042",
			Form:         "8-K",
			FileDate:     "2026-06-10",
			DisplayNames: []string{"NVIDIA CORP (NVDA)"},
			Ciks:         []string{"1045810"},
			Items:        []string{"5.02", "9.01"},
		}},
		// Duplicate accession number is dropped.
		{Source: dto.EdgarFilingSource{
			Adsh: "0001045810-26-000042",
			Form: "8-K",
		}},
		// Form falls back to file_type, date to date_filed.
		{Source: dto.EdgarFilingSource{
			Adsh:       "0001045810-26-000043",
			FileType:   "4",
			DateFiled:  "2026-06-11",
			EntityName: "NVIDIA CORP",
			Ciks:       []string{"1045810"},
		}},
	}

	filings := ParseEdgarHits(hits)

	require.Len(t, filings, 2)
	assert.Equal(t, "8-K", filings[0].FilingType)
	assert.Equal(t, "2026-06-10", filings[0].FiledDate)
	assert.Equal(t, "NVIDIA CORP (NVDA)", filings[0].Title)
	assert.Equal(t, "https://www.sec.gov/Archives/edgar/data/1045810/0001045810-26-000042/", filings[0].URL)
	assert.Equal(t, []string{"5.02", "9.01"}, filings[0].Items)

	assert.Equal(t, "4", filings[1].FilingType)
	assert.Equal(t, "2026-06-11", filings[1].FiledDate)
	assert.Equal(t, "NVIDIA CORP", filings[1].Title)
}

func TestEdgarHitsWrapper_ObjectOrArray(t *testing.T) {
	var nested dto.EdgarSearchResponse
	object := []byte(`{"hits":{"hits":[{"_source":{"adsh":"1","form":"8-K"}}]}}`)
	require.NoError(t, json.Unmarshal(object, &nested))
	require.Len(t, nested.Hits.Hits, 1)
	assert.Equal(t, "8-K", nested.Hits.Hits[0].Source.Form)

	var flat dto.EdgarSearchResponse
	array := []byte(`{"hits":[{"_source":{"adsh":"2","form":"10-Q"}}]}`)
	require.NoError(t, json.Unmarshal(array, &flat))
	require.Len(t, flat.Hits.Hits, 1)
	assert.Equal(t, "10-Q", flat.Hits.Hits[0].Source.Form)
}
