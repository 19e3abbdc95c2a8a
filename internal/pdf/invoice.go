// Package pdf renders order invoices. The amounts shown match the stored
// order exactly; nothing is recomputed here.
package pdf

import (
	"encoding/json"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/database"
	"github.com/casadulce/api/internal/money"
	"github.com/casadulce/api/internal/service"
)

type invoiceLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// Invoice renders the order as a PDF document and returns its bytes.
func Invoice(order database.Order) ([]byte, error) {
	var lines []invoiceLine
	if len(order.ProductsJSON) > 0 {
		if err := json.Unmarshal(order.ProductsJSON, &lines); err != nil {
			return nil, fmt.Errorf("decode products: %w", err)
		}
	}
	var observations []string
	if len(order.Observations) > 0 {
		if err := json.Unmarshal(order.Observations, &observations); err != nil {
			return nil, fmt.Errorf("decode observations: %w", err)
		}
	}

	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "Nota de Pedido", props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	m.AddRow(6, text.NewCol(12, "Pedido "+order.ID.String(), props.Text{
		Size:  8,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}))
	m.AddRow(4, line.NewCol(12))

	m.AddRows(clientRows(order)...)
	m.AddRow(4, line.NewCol(12))
	m.AddRows(productRows(lines)...)
	if len(observations) > 0 {
		m.AddRows(observationRows(observations)...)
	}
	m.AddRow(4, line.NewCol(12))
	m.AddRows(totalsRows(order)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func labelValueRow(label, value string) core.Row {
	return row.New(6).Add(
		text.NewCol(4, label, props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(8, value, props.Text{Size: 9}),
	)
}

func clientRows(order database.Order) []core.Row {
	rows := []core.Row{
		labelValueRow("Cliente", order.ClientName),
		labelValueRow("Fecha", order.EventDate.String),
		labelValueRow("Hora", order.EventTime.String),
	}
	if order.IsDeliveryEnabled {
		rows = append(rows, labelValueRow("Dirección de entrega", order.DeliveryAddress.String))
		if order.DeliveryDate.Valid {
			rows = append(rows, labelValueRow("Fecha de entrega", order.DeliveryDate.String))
		}
		if order.DeliveryTime.Valid {
			rows = append(rows, labelValueRow("Hora de entrega", order.DeliveryTime.String))
		}
	} else {
		rows = append(rows, labelValueRow("Entrega", "Retiro en tienda"))
	}
	return rows
}

func productRows(lines []invoiceLine) []core.Row {
	header := props.Text{Size: 9, Style: fontstyle.Bold}
	cell := props.Text{Size: 9}
	right := props.Text{Size: 9, Align: align.Right}

	rows := []core.Row{
		row.New(7).Add(
			text.NewCol(2, "Cantidad", header),
			text.NewCol(6, "Descripción", header),
			text.NewCol(2, "Precio Unit.", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, "Importe", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		),
	}
	for _, l := range lines {
		amount := l.Price.Mul(decimal.NewFromInt32(l.Quantity))
		rows = append(rows, row.New(6).Add(
			text.NewCol(2, fmt.Sprintf("%d", l.Quantity), cell),
			text.NewCol(6, l.Name, cell),
			text.NewCol(2, money.Format(l.Price), right),
			text.NewCol(2, money.Format(amount), right),
		))
	}
	return rows
}

func observationRows(observations []string) []core.Row {
	rows := []core.Row{
		row.New(7).Add(text.NewCol(12, "Observaciones", props.Text{Size: 9, Style: fontstyle.Bold})),
	}
	for _, obs := range observations {
		rows = append(rows, row.New(5).Add(text.NewCol(12, "• "+obs, props.Text{Size: 8})))
	}
	return rows
}

func totalsRows(order database.Order) []core.Row {
	amount := func(label string, d decimal.Decimal, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(6),
			text.NewCol(4, label, props.Text{Size: 9, Style: style, Align: align.Right}),
			text.NewCol(2, money.Format(d), props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}

	return []core.Row{
		amount("Subtotal", service.NumericToDecimal(order.Subtotal), false),
		amount("Envío", service.NumericToDecimal(order.Shipping), false),
		amount("Total Neto", service.NumericToDecimal(order.TotalNet), true),
		amount("Anticipo", service.NumericToDecimal(order.Deposit), false),
		amount("Resto a Pagar", service.NumericToDecimal(order.Balance), true),
	}
}
