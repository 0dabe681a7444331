// Package report renders per-source salary statistics as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"salary-stats-go/internal/models"
)

var header = []string{
	"Язык программирования",
	"Вакансий найдено",
	"Вакансий обработано",
	"Средняя зарплата",
}

// TablePrinter writes one boxed table per report.
type TablePrinter struct {
	w io.Writer
}

func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{w: w}
}

// Print renders report titled with its source name, one row per language.
func (p *TablePrinter) Print(report models.Report) error {
	rendered, err := Render(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, rendered)
	return err
}

// PrintAll prints reports in order.
func (p *TablePrinter) PrintAll(reports []models.Report) error {
	for _, report := range reports {
		if err := p.Print(report); err != nil {
			return fmt.Errorf("print %s table: %w", report.Source, err)
		}
	}
	return nil
}

// Render returns the boxed table for report.
func Render(report models.Report) (string, error) {
	data := pterm.TableData{header}
	for _, language := range report.Languages {
		stats := report.Stats[language]
		data = append(data, []string{
			language,
			strconv.Itoa(stats.VacanciesFound),
			strconv.Itoa(stats.VacanciesProcessed),
			humanize.Comma(int64(stats.AverageSalary)),
		})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(data).
		Srender()
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}

	return pterm.DefaultBox.WithTitle(report.Source).Sprint(table), nil
}
