// Package export writes the dashboard tables to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vote-dashboard-go/internal/aggregator"
	"vote-dashboard-go/internal/dataset"
)

const (
	SheetValues  = "Valores"
	SheetRanking = "Mejor Compañero"
	SheetSource  = "Fuente"
)

// Workbook builds a workbook with one tally block per value, the best
// classmate ranking with a top 10 chart, and the load provenance.
func Workbook(ds *dataset.Dataset, r aggregator.Resolver) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetValues); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeValues(f, ds, r, bold); err != nil {
		return nil, err
	}
	if err := writeRanking(f, ds, r, bold); err != nil {
		return nil, err
	}
	if err := writeSource(f, ds, bold); err != nil {
		return nil, err
	}
	return f, nil
}

// Write streams the workbook to w.
func Write(w io.Writer, ds *dataset.Dataset, r aggregator.Resolver) error {
	f, err := Workbook(ds, r)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeValues(f *excelize.File, ds *dataset.Dataset, r aggregator.Resolver, bold int) error {
	row := 1
	for _, cat := range aggregator.Categories(ds.Records) {
		if err := setRow(f, SheetValues, row, bold, "Valor", cat); err != nil {
			return err
		}
		row++
		if err := setRow(f, SheetValues, row, bold, "Alumno", "Votos"); err != nil {
			return err
		}
		row++
		for _, tr := range aggregator.TallyRows(ds.Records, cat, r) {
			if err := setRow(f, SheetValues, row, -1, tr.Name, tr.Votes); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return f.SetColWidth(SheetValues, "A", "A", 28)
}

func writeRanking(f *excelize.File, ds *dataset.Dataset, r aggregator.Resolver, bold int) error {
	if _, err := f.NewSheet(SheetRanking); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	if err := setRow(f, SheetRanking, 1, bold, "Alumno", "Votos Totales", "Puntaje"); err != nil {
		return err
	}
	rows := aggregator.RankRows(ds.Records, r)
	for i, rr := range rows {
		if err := setRow(f, SheetRanking, i+2, -1, rr.Name, rr.TotalNominations, rr.Score); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetRanking, "A", "A", 28); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	last := len(aggregator.Top(rows, 10)) + 1
	sheetRef := "'" + SheetRanking + "'"
	err := f.AddChart(SheetRanking, "E2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       sheetRef + "!$C$1",
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetRef, last),
			Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheetRef, last),
		}},
		Title:  []excelize.RichTextRun{{Text: "Top 10 - Puntaje Mejor Compañero"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
	if err != nil {
		return fmt.Errorf("add chart: %w", err)
	}
	return nil
}

func writeSource(f *excelize.File, ds *dataset.Dataset, bold int) error {
	if _, err := f.NewSheet(SheetSource); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	src := ds.Source
	lines := [][]any{
		{"Fuente", src.Description},
		{"Votos", src.Records},
		{"Registros corregidos", src.Recovered},
		{"Cargado", src.LoadedAt.Format("2006-01-02 15:04:05")},
	}
	for i, line := range lines {
		if err := setRow(f, SheetSource, i+1, -1, line...); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStyle(SheetSource, cell, cell, bold); err != nil {
			return err
		}
	}
	return nil
}

// setRow writes values starting at column A. style < 0 leaves the row unstyled.
func setRow(f *excelize.File, sheet string, row, style int, values ...any) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, start, err)
	}
	if style < 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}
