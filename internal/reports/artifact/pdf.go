package artifact

import (
	"fmt"
	"os"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	pdfHeaderColor = &props.Color{Red: 0, Green: 70, Blue: 127}
	pdfGray        = &props.Color{Red: 100, Green: 100, Blue: 100}
)

func writePDF(path string, ds Dataset, reportType string) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		Build()

	m := maroto.New(cfg)

	title := cases.Title(language.English).String(strings.ReplaceAll(reportType, "_", " "))
	m.AddRows(row.New(12).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: pdfHeaderColor, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+time.Now().Format("2006-01-02 15:04"), props.Text{
				Size: 8, Top: 4, Color: pdfGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: pdfHeaderColor, Thickness: 0.5}))

	m.AddRows(headerRow(ds.Columns))
	for _, r := range ds.Rows {
		m.AddRows(dataRow(r, len(ds.Columns)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: pdfGray, Thickness: 0.3}))
	printer := message.NewPrinter(language.English)
	m.AddRows(row.New(8).Add(
		col.New(12).Add(
			text.New(printer.Sprintf("Total records: %d", len(ds.Rows)), props.Text{
				Size: 8, Top: 2, Color: pdfGray,
			}),
		),
	))

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("artifact: render pdf: %w", err)
	}
	return os.WriteFile(path, doc.GetBytes(), 0o644)
}

func headerRow(columns []string) core.Row {
	width := columnWidth(len(columns))
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(width).Add(
			text.New(c, props.Text{Style: fontstyle.Bold, Size: 8, Color: pdfHeaderColor}),
		))
	}
	return row.New(7).Add(cols...)
}

func dataRow(values []string, columnCount int) core.Row {
	width := columnWidth(columnCount)
	cols := make([]core.Col, 0, len(values))
	for _, v := range values {
		cols = append(cols, col.New(width).Add(
			text.New(v, props.Text{Size: 7}),
		))
	}
	return row.New(5).Add(cols...)
}

// Maroto lays out on a 12 column grid.
func columnWidth(count int) int {
	if count <= 0 {
		return 12
	}
	width := 12 / count
	if width < 1 {
		width = 1
	}
	return width
}
