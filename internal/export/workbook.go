package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"stock-backtest-go/internal/backtest"
)

var tradeHeader = []string{
	"code", "name", "signal_date", "entry_date", "exit_date",
	"entry_price", "exit_price", "shares", "profit_jpy", "ret_pct", "exit_reason",
}

// WriteWorkbook renders the result as an xlsx workbook with a trades sheet,
// a summary sheet and a profit bar chart. The workbook is formatting only;
// the JSON record written by WriteResult stays authoritative. names maps
// security codes to company names and may be nil.
func WriteWorkbook(path string, result *backtest.Result, names map[string]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const tradesSheet = "trades"
	f.SetSheetName("Sheet1", tradesSheet)

	rows := make([][]interface{}, 0, len(result.Trades)+1)
	header := make([]interface{}, len(tradeHeader))
	for i, h := range tradeHeader {
		header[i] = h
	}
	rows = append(rows, header)

	for _, t := range result.Trades {
		rows = append(rows, []interface{}{
			t.Code,
			names[t.Code],
			t.SignalDate.Format("2006-01-02"),
			t.EntryDate.Format("2006-01-02"),
			t.ExitDate.Format("2006-01-02"),
			t.EntryPrice,
			t.ExitPrice,
			t.Shares,
			t.ProfitJPY,
			t.RetPct,
			string(t.ExitReason),
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(tradesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write trades row %d: %w", i+1, err)
		}
	}

	if err := autoFitColumns(f, tradesSheet, rows); err != nil {
		return err
	}

	if len(result.Trades) > 0 {
		if err := addProfitChart(f, tradesSheet, len(result.Trades)); err != nil {
			return err
		}
	}

	if err := writeSummarySheet(f, result.Summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// autoFitColumns widens each column to roughly its longest rendered value.
func autoFitColumns(f *excelize.File, sheet string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	for col := range rows[0] {
		width := 10.0
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			w := float64(len(fmt.Sprint(row[col]))) * 1.1
			if w > width {
				width = w
			}
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

// addProfitChart inserts a per-trade profit column chart next to the table.
func addProfitChart(f *excelize.File, sheet string, trades int) error {
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$I$1", sheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, trades+1),
			Values:     fmt.Sprintf("%s!$I$2:$I$%d", sheet, trades+1),
		}},
		Title: []excelize.RichTextRun{{Text: "Profit per Trade (JPY)"}},
	}
	if err := f.AddChart(sheet, "M2", chart); err != nil {
		return fmt.Errorf("failed to add profit chart: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s backtest.Summary) error {
	const sheet = "summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"metric", "value"},
		{"trades", s.TradeCount},
		{"total_profit", s.TotalProfitJPY},
		{"win_rate", s.WinRate},
		{"avg_ret_pct", s.AvgRetPct},
		{"sharpe", s.SharpeLikeRatio},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	return nil
}
