// Package pdf genera la boleta imprimible de una orden de confección.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Boutique          │  N° Orden + Fecha │
//	│  ───────────────────────────────────────────── │
//	│  CLIENTE: Nombre / Teléfono / Email            │
//	│  PRENDA: Tipo, estado, entrega, urgencia       │
//	│  ───────────────────────────────────────────── │
//	│  MEDIDAS: Etiqueta | Valor | Unidad            │
//	│  ───────────────────────────────────────────── │
//	│  PAGO: Precio / Anticipo / SALDO               │
//	│  FOOTER: QR con el id de la orden              │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

var _ ports.SlipGenerator = (*MarotoSlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 79, Green: 70, Blue: 229}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 200, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSlipGenerator implementa ports.SlipGenerator usando Maroto v2.
type MarotoSlipGenerator struct {
	boutique string
}

// NewMarotoSlipGenerator construye el generador; boutique es el nombre impreso en el encabezado.
func NewMarotoSlipGenerator(boutique string) *MarotoSlipGenerator {
	if strings.TrimSpace(boutique) == "" {
		boutique = "TailorFlow"
	}
	return &MarotoSlipGenerator{boutique: boutique}
}

// Generate genera el PDF y devuelve sus bytes. customer puede ser nil.
func (g *MarotoSlipGenerator) Generate(order entity.Order, customer *entity.Customer) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Order slip "+order.ID, true).
		WithAuthor(g.boutique, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(order, customer))
	m.AddRows(garmentRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(measurementRows(order.Measurements)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(paymentRow(order))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoSlipGenerator) headerRow(o entity.Order) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.boutique, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tailoring & Alterations", props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDER SLIP", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(o.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Ordered: "+nonEmpty(o.OrderDate, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func customerRow(o entity.Order, c *entity.Customer) core.Row {
	name, contact := o.CustomerName, "-"
	if c != nil {
		name = nonEmpty(c.Name, name)
		contact = fmt.Sprintf("Phone: %s   |   Email: %s", nonEmpty(c.Phone, "-"), nonEmpty(c.Email, "-"))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CUSTOMER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(name, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(contact, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

func garmentRow(o entity.Order) core.Row {
	due := "Due: " + nonEmpty(o.DueDate, "-")
	dueProps := props.Text{Size: 9, Align: align.Right, Top: 5}
	if o.IsUrgent {
		due += "  (URGENT)"
		dueProps.Style = fontstyle.Bold
		dueProps.Color = colorDanger
	}
	details := []core.Component{
		text.New("GARMENT", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(fmt.Sprintf("%s  |  %s", o.GarmentType, o.Status), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
	}
	if o.Description != "" {
		details = append(details, text.New(o.Description, props.Text{Size: 8, Top: 10, Color: colorGray}))
	}
	if o.AssignedStaff != "" {
		details = append(details, text.New("Tailor: "+o.AssignedStaff, props.Text{Size: 8, Top: 15, Color: colorGray}))
	}
	return row.New(20).Add(
		col.New(8).Add(details...),
		col.New(4).Add(text.New(due, dueProps)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Measurement", 6, align.Left),
		h("Value", 4, align.Right),
		h("Unit", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func measurementRows(ms []entity.Measurement) []core.Row {
	if len(ms) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("No measurements recorded.", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
		))}
	}
	out := make([]core.Row, 0, len(ms))
	for _, m := range ms {
		value := m.Value.String()
		if m.Value.IsBlank() {
			value = "____"
		}
		out = append(out, row.New(6).Add(
			col.New(6).Add(text.New(m.Label, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(value, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(m.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return out
}

func paymentRow(o entity.Order) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	balance := o.BalanceDue()
	balanceColor := colorPrimary
	if balance.IsNegative() {
		balanceColor = colorDanger
	}

	return row.New(20).Add(
		col.New(4),
		col.New(4).Add(
			label("Price:"),
			text.New("Advance:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("BALANCE DUE:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 11, Color: balanceColor}),
		),
		col.New(4).Add(
			value(formatMoney(o.Price)),
			text.New(formatMoney(o.Advance), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			text.New(formatMoney(balance), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 11, Color: balanceColor}),
		),
	)
}

func footerRow(o entity.Order) core.Row {
	return row.New(30).Add(
		col.New(4).Add(code.NewQr(o.ID, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Present this slip at trial and delivery.", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Order ID: "+o.ID, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// shortID recorta los ids con uuid para el encabezado: "o1b2c3d4-…" → "#O1B2C3D4".
func shortID(id string) string {
	if len(id) > 9 {
		id = id[:9]
	}
	return "#" + strings.ToUpper(id)
}

// formatMoney formatea con separador de miles y dos decimales.
// Ej: 25000 → "25,000.00", -1500.5 → "-1,500.50".
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
