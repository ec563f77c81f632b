package repository

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insiderTableHTML = `
<html><body>
<table class="tinytable">
<tr><th>X</th><th>Filing Date</th><th>Trade Date</th><th>Ticker</th><th>Insider</th><th>Title</th><th>Type</th><th>Own</th><th>Price</th><th>Qty</th><th>Owned</th><th>dOwn</th><th>Value</th></tr>
<tr>
<td>1</td>
<td><a href="/Archives/edgar/data/1045810/form4.xml">2026-06-10 16:05:12</a></td>
<td>2026-06-09</td>
<td>NVDA</td>
<td>Smith Alice</td>
<td>CFO</td>
<td>S - Sale</td>
<td>D</td>
<td>$120.50</td>
<td>-10,000</td>
<td>250,000</td>
<td>-4%</td>
<td>-$1,205,000</td>
</tr>
<tr><td>short row</td></tr>
</table>
</body></html>`

func TestParseInsiderTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(insiderTableHTML))
	require.NoError(t, err)

	transactions := ParseInsiderTable(doc, 20)

	require.Len(t, transactions, 1)
	tx := transactions[0]
	assert.Equal(t, "2026-06-10 16:05:12", tx.FilingDate)
	assert.Equal(t, "2026-06-09", tx.TradeDate)
	assert.Equal(t, "Smith Alice", tx.InsiderName)
	assert.Equal(t, "CFO", tx.Title)
	assert.Equal(t, "S - Sale", tx.TradeType)
	require.NotNil(t, tx.Price)
	assert.InDelta(t, 120.50, *tx.Price, 0.001)
	require.NotNil(t, tx.Shares)
	assert.EqualValues(t, -10000, *tx.Shares)
	require.NotNil(t, tx.Value)
	assert.InDelta(t, -1205000, *tx.Value, 0.001)
	assert.Equal(t, "https://www.sec.gov/Archives/edgar/data/1045810/form4.xml", tx.FilingURL)
}

func TestParseInsiderTable_MaxRows(t *testing.T) {
	row := `<tr><td>1</td><td>2026-06-10</td><td>2026-06-09</td><td>NVDA</td><td>A</td><td>CEO</td><td>S - Sale</td><td>D</td><td>$1.00</td><td>-1</td><td>1</td><td>0%</td><td>-$1</td></tr>`
	html := `<table class="tinytable"><tr><th>h</th></tr>` + strings.Repeat(row, 5) + `</table>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Len(t, ParseInsiderTable(doc, 3), 3)
}

func TestParseMoney(t *testing.T) {
	require.NotNil(t, ParseMoney("$1,234,567.89"))
	assert.InDelta(t, 1234567.89, *ParseMoney("$1,234,567.89"), 0.001)
	assert.InDelta(t, -500, *ParseMoney("-$500"), 0.001)
	assert.Nil(t, ParseMoney(""))
	assert.Nil(t, ParseMoney("-"))
	assert.Nil(t, ParseMoney("n/a"))
}

func TestParseShares(t *testing.T) {
	require.NotNil(t, ParseShares("+1,234"))
	assert.EqualValues(t, 1234, *ParseShares("+1,234"))
	assert.EqualValues(t, -500, *ParseShares("-500"))
	assert.Nil(t, ParseShares(""))
	assert.Nil(t, ParseShares("-"))
}
