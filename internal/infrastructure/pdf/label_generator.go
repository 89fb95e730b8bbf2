// Package pdf genera las etiquetas con código de barras (Code128) en hojas A4.
//
// Layout: dos etiquetas por fila.
//
//	┌──────────────────────────┬──────────────────────────┐
//	│ Nombre del producto      │ Nombre del producto      │
//	│ Marca / Modelo / Serie   │ Marca / Modelo / Serie   │
//	│ ║│║║│║│││║║│║│║║│       │ ║│║║│║│││║║│║│║║│       │
//	│ PS17123456780001         │ PS17123456780002         │
//	└──────────────────────────┴──────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Equipos-api/internal/application/labels"
)

// ContentType tipo MIME del documento.
const ContentType = "application/pdf"

const labelsPerRow = 2

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ labels.Generator = (*LabelGenerator)(nil)

// LabelGenerator implementa labels.Generator usando Maroto v2.
type LabelGenerator struct {
	author string
}

// NewLabelGenerator construye el generador; author va a los metadatos del PDF.
func NewLabelGenerator(author string) *LabelGenerator { return &LabelGenerator{author: author} }

// GenerateLabels genera el PDF y devuelve sus bytes.
func (g *LabelGenerator) GenerateLabels(_ context.Context, list []labels.Label) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Etiketler", true).
		WithAuthor(nonEmpty(g.author, "equipos-api"), true).
		Build()

	m := maroto.New(cfg)
	for start := 0; start < len(list); start += labelsPerRow {
		end := min(start+labelsPerRow, len(list))
		m.AddRows(labelRows(list[start:end])...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

// labelRows filas de una línea de etiquetas; las columnas sobrantes quedan vacías.
func labelRows(batch []labels.Label) []core.Row {
	size := 12 / labelsPerRow
	cols := func(build func(l labels.Label) core.Col) []core.Col {
		out := make([]core.Col, 0, labelsPerRow)
		for i := 0; i < labelsPerRow; i++ {
			if i < len(batch) {
				out = append(out, build(batch[i]))
			} else {
				out = append(out, col.New(size))
			}
		}
		return out
	}

	return []core.Row{
		row.New(7).Add(cols(func(l labels.Label) core.Col {
			return col.New(size).Add(text.New(l.Title, props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1, Left: 2,
			}))
		})...),
		row.New(5).Add(cols(func(l labels.Label) core.Col {
			return col.New(size).Add(text.New(nonEmpty(l.Detail, " "), props.Text{
				Size: 7.5, Color: colorGray, Left: 2,
			}))
		})...),
		row.New(16).Add(cols(func(l labels.Label) core.Col {
			return col.New(size).Add(code.NewBar(l.Barcode, props.Barcode{
				Percent: 80,
				Center:  true,
			}))
		})...),
		row.New(5).Add(cols(func(l labels.Label) core.Col {
			return col.New(size).Add(text.New(l.Barcode, props.Text{
				Size: 8, Align: align.Center, Top: 0.5,
			}))
		})...),
		line.NewRow(4, props.Line{Color: colorGray, Thickness: 0.2}),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
