package table

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"gainerscan/pkg/market"
	"gainerscan/pkg/scoring"
	"gainerscan/pkg/tradeplan"
)

var (
	gainerHeader    = []string{"Ticker", "Price", "%Chg", "Volume"}
	tradePlanHeader = []string{"Ticker", "Name", "Price", "%Chg", "Volume", "Entry", "Stop", "Target", "Shares", "Catalyst", "News"}
	scoreHeader     = []string{"Conv", "Conf", "PM Vol", "PM VWAP", "Spread%", "T1", "T2"}
)

// newTable left-aligns the first textCols columns and right-aligns the rest.
func newTable(w io.Writer, header []string, textCols int) *tablewriter.Table {
	align := make([]int, len(header))
	for i := range align {
		align[i] = tablewriter.ALIGN_RIGHT
		if i < textCols {
			align[i] = tablewriter.ALIGN_LEFT
		}
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetColumnAlignment(align)
	t.SetBorder(false)
	t.SetCenterSeparator(" ")
	t.SetColumnSeparator(" ")
	t.SetRowSeparator("-")
	return t
}

// Timestamp writes the scan time line printed above each realtime table.
func Timestamp(w io.Writer, at time.Time) {
	fmt.Fprintf(w, "\n%s UTC\n", at.UTC().Format("2006-01-02 15:04:05"))
}

// Gainers renders the polling table. An empty slice renders the header only.
func Gainers(w io.Writer, rows []market.GainerRecord) {
	t := newTable(w, gainerHeader, 1)
	for _, r := range rows {
		t.Append([]string{
			r.Ticker,
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatFloat(r.ChangePct, 'f', 2, 64),
			market.FormatVolume(r.Volume),
		})
	}
	t.Render()
}

// TradePlans renders the snapshot table followed by each ticker's catalyst headlines.
// Conviction columns are added when any row carries a scorecard.
func TradePlans(w io.Writer, rows []tradeplan.Row) {
	scored := false
	for _, r := range rows {
		scored = scored || r.Score != nil
	}
	header := tradePlanHeader
	if scored {
		header = append(append([]string{}, tradePlanHeader...), scoreHeader...)
	}

	t := newTable(w, header, 2)
	for _, r := range rows {
		shares := "-"
		if r.Shares > 0 {
			shares = strconv.FormatInt(r.Shares, 10)
		}
		cells := []string{
			r.Ticker,
			truncate(r.Name, 28),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatFloat(r.ChangePct, 'f', 2, 64),
			market.FormatVolume(r.Volume),
			r.Plan.Entry.StringFixed(2),
			r.Plan.Stop.StringFixed(2),
			r.Plan.Target.StringFixed(2),
			shares,
			strconv.FormatFloat(r.Catalyst, 'f', 2, 64),
			strconv.Itoa(len(r.Headlines)),
		}
		if scored {
			cells = append(cells, scoreCells(r.Score)...)
		}
		t.Append(cells)
	}
	t.Render()

	for _, r := range rows {
		if len(r.Headlines) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", r.Ticker)
		for _, h := range r.Headlines {
			fmt.Fprintf(w, "  - %s\n", h)
		}
	}
}

func scoreCells(card *scoring.Scorecard) []string {
	cells := []string{"-", "-", "-", "-", "-", "-", "-"}
	if card == nil {
		return cells
	}
	cells[0] = string(card.Conviction)
	cells[1] = strconv.FormatFloat(card.Confidence, 'f', 0, 64)
	cells[2] = market.FormatVolume(int64(card.Premarket.Volume))
	if card.Premarket.VWAP > 0 {
		cells[3] = strconv.FormatFloat(card.Premarket.VWAP, 'f', 2, 64)
	}
	if card.SpreadPct != nil {
		cells[4] = strconv.FormatFloat(*card.SpreadPct, 'f', 2, 64)
	}
	if card.T1.Valid {
		cells[5] = card.T1.Decimal.StringFixed(2)
	}
	if card.T2.Valid {
		cells[6] = card.T2.Decimal.StringFixed(2)
	}
	return cells
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
