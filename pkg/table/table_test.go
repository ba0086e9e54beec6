package table

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gainerscan/pkg/market"
	"gainerscan/pkg/scoring"
	"gainerscan/pkg/tradeplan"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestGainersEmptyRendersHeader(t *testing.T) {
	var buf bytes.Buffer
	assert.NotPanics(t, func() { Gainers(&buf, nil) })

	out := buf.String()
	for _, h := range gainerHeader {
		assert.Contains(t, out, h)
	}
	// header and its underline only
	assert.Len(t, nonEmptyLines(out), 2)
}

func TestTradePlansEmptyRendersHeader(t *testing.T) {
	var buf bytes.Buffer
	assert.NotPanics(t, func() { TradePlans(&buf, []tradeplan.Row{}) })

	out := buf.String()
	for _, h := range tradePlanHeader {
		assert.Contains(t, out, h)
	}
	assert.Len(t, nonEmptyLines(out), 2)
}

func TestGainers(t *testing.T) {
	var buf bytes.Buffer
	Gainers(&buf, []market.GainerRecord{
		{Ticker: "ABC", Price: 10, ChangePct: 25, Volume: 1_000_000},
		{Ticker: "LONGT", Price: 123.456, ChangePct: 7.125, Volume: 950},
	})

	lines := nonEmptyLines(buf.String())
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"ABC", "10.00", "25.00", "1.0M"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"LONGT", "123.46", "7.12", "950"}, strings.Fields(lines[3]))

	// columns line up
	assert.Equal(t, len(lines[2]), len(lines[3]))
}

func TestTradePlans(t *testing.T) {
	rows := []tradeplan.Row{
		{
			GainerRecord: market.GainerRecord{Ticker: "ABC", Price: 10, ChangePct: 25, Volume: 1_000_000},
			Name:         "Acme",
			Plan:         tradeplan.Calculate(10, 0.05, 0.10),
			Shares:       500,
			Catalyst:     1,
			Headlines:    []string{"Acme wins FDA approval", "Acme prices offering"},
		},
		{
			GainerRecord: market.GainerRecord{Ticker: "XYZ", Price: 2.5, ChangePct: 15, Volume: 12_345},
			Name:         "Xyz",
			Plan:         tradeplan.Calculate(2.5, 0.05, 0.10),
			Headlines:    []string{},
		},
	}

	var buf bytes.Buffer
	TradePlans(&buf, rows)
	out := buf.String()
	lines := nonEmptyLines(out)

	assert.Equal(t,
		[]string{"ABC", "Acme", "10.00", "25.00", "1.0M", "10.00", "9.50", "11.00", "500", "1.00", "2"},
		strings.Fields(lines[2]))
	assert.Equal(t,
		[]string{"XYZ", "Xyz", "2.50", "15.00", "12.3K", "2.50", "2.38", "2.75", "-", "0.00", "0"},
		strings.Fields(lines[3]))

	assert.Contains(t, out, "  - Acme wins FDA approval\n")
	assert.Contains(t, out, "  - Acme prices offering\n")
	assert.NotContains(t, out, "\nXYZ\n")
}

func TestTimestamp(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 3, 2, 9, 45, 7, 0, time.FixedZone("EST", -5*3600))
	Timestamp(&buf, at)
	assert.Equal(t, "\n2026-03-02 14:45:07 UTC\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestTradePlansWithScores(t *testing.T) {
	spread := 0.5
	rows := []tradeplan.Row{
		{
			GainerRecord: market.GainerRecord{Ticker: "ABC", Price: 10, ChangePct: 25, Volume: 1_000_000},
			Name:         "Acme",
			Plan:         tradeplan.Calculate(10, 0.05, 0.10),
			Headlines:    []string{},
			Score: &scoring.Scorecard{
				Confidence: 67.4,
				Conviction: scoring.Medium,
				Premarket:  scoring.Premarket{Volume: 2_000_000, VWAP: 9.5},
				SpreadPct:  &spread,
				T1:         decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
				T2:         decimal.NewNullDecimal(decimal.RequireFromString("13.13")),
			},
		},
		{
			GainerRecord: market.GainerRecord{Ticker: "XYZ", Price: 2.5, ChangePct: 15, Volume: 12_345},
			Plan:         tradeplan.Calculate(2.5, 0.05, 0.10),
			Headlines:    []string{},
			Score:        &scoring.Scorecard{Conviction: scoring.Low, Confidence: 21},
		},
	}

	var buf bytes.Buffer
	TradePlans(&buf, rows)
	lines := nonEmptyLines(buf.String())
	require.Len(t, lines, 4)

	for _, h := range scoreHeader {
		assert.Contains(t, lines[0], h)
	}
	assert.Equal(t,
		[]string{"Medium", "67", "2.0M", "9.50", "0.50", "12.50", "13.13"},
		strings.Fields(lines[2])[11:])
	// no name column value, so the scored cells start one field earlier
	assert.Equal(t,
		[]string{"Low", "21", "0", "-", "-", "-", "-"},
		strings.Fields(lines[3])[10:])
}
