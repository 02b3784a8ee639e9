package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

var headers = []string{"Date of Sale", "Title", "Description", "Category", "Price", "Sold"}

// Service renders a month of transactions as an XLSX workbook.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Filename returns the download name of the workbook for a month.
func Filename(rng transaction.MonthRange) string {
	return fmt.Sprintf("transactions_%s.xlsx", rng)
}

// MonthXLSX returns a workbook holding every transaction of the month that
// matches search, followed by a totals row, and a summary sheet with the
// month statistics and charts data.
func (s *Service) MonthXLSX(ctx context.Context, rng transaction.MonthRange, search string) ([]byte, error) {
	start := time.Now()

	txs, err := s.collect(ctx, rng, search)
	if err != nil {
		return nil, err
	}

	summary, err := s.transactions.Combined(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("computing summary: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	if err := writeTransactions(f, txs); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}

	if err := writeSummary(f, rng, summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}

	slog.Info("exported transactions",
		"month", rng.String(),
		"search", search,
		"rows", len(txs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return buf.Bytes(), nil
}

// collect walks every page of the listing.
func (s *Service) collect(ctx context.Context, rng transaction.MonthRange, search string) ([]*transaction.Transaction, error) {
	var txs []*transaction.Transaction

	for page := 1; ; page++ {
		p, err := s.transactions.List(ctx, transaction.ListParams{
			Range:   rng,
			Search:  search,
			Page:    page,
			PerPage: transaction.MaxPerPage,
		})
		if err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}

		txs = append(txs, p.Transactions...)

		if len(p.Transactions) == 0 || len(txs) >= p.Total {
			return txs, nil
		}
	}
}

func writeTransactions(f *excelize.File, txs []*transaction.Transaction) error {
	w := &sheetWriter{f: f, sheet: transactionsSheet}

	for i, h := range headers {
		w.set(i+1, 1, h)
	}

	total := decimal.Zero
	row := 2

	for _, tx := range txs {
		w.set(1, row, tx.DateOfSale.Format(time.DateOnly))
		w.set(2, row, tx.Title)
		w.set(3, row, tx.Description)
		w.set(4, row, tx.Category)
		w.set(5, row, tx.Price.InexactFloat64())
		w.set(6, row, tx.Sold)

		total = total.Add(tx.Price)
		row++
	}

	w.set(1, row, "Total")
	w.set(5, row, total.InexactFloat64())

	_ = f.SetColWidth(transactionsSheet, "A", "A", 14)
	_ = f.SetColWidth(transactionsSheet, "B", "B", 40)
	_ = f.SetColWidth(transactionsSheet, "C", "C", 60)
	_ = f.SetColWidth(transactionsSheet, "D", "D", 22)

	if w.err != nil {
		return fmt.Errorf("writing transactions sheet: %w", w.err)
	}

	return nil
}

func writeSummary(f *excelize.File, rng transaction.MonthRange, c *transaction.Combined) error {
	w := &sheetWriter{f: f, sheet: summarySheet}

	w.set(1, 1, "Month")
	w.set(2, 1, rng.String())
	w.set(1, 2, "Total Amount")
	w.set(2, 2, c.Statistics.TotalAmount.Round(2).InexactFloat64())
	w.set(1, 3, "Total Sold")
	w.set(2, 3, c.Statistics.TotalSold)
	w.set(1, 4, "Total Not Sold")
	w.set(2, 4, c.Statistics.TotalNotSold)

	row := 6
	w.set(1, row, "Price Range")
	w.set(2, row, "Count")

	for _, b := range c.BarChartData {
		row++
		w.set(1, row, b.Range)
		w.set(2, row, b.Count)
	}

	row += 2
	w.set(1, row, "Category")
	w.set(2, row, "Count")

	for _, cat := range c.PieChartData {
		row++
		w.set(1, row, cat.Category)
		w.set(2, row, cat.Count)
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 22)

	if w.err != nil {
		return fmt.Errorf("writing summary sheet: %w", w.err)
	}

	return nil
}

// sheetWriter keeps the first error of a run of cell writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, v any) {
	if w.err != nil {
		return
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}

	w.err = w.f.SetCellValue(w.sheet, cell, v)
}
