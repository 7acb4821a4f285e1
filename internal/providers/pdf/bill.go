package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	businessdomain "github.com/smallbiznis/bizbook/internal/business/domain"
)

type billRenderer struct{}

func New() Provider {
	return &billRenderer{}
}

func (r *billRenderer) RenderBill(ctx context.Context, business *businessdomain.Business, bill *billingdomain.Bill) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	title := "Sale Bill"
	counterpart := "Billed to"
	if bill.Type == billingdomain.BillTypePurchase {
		title = "Purchase Bill"
		counterpart = "Supplier"
	}

	m.AddRow(12,
		text.NewCol(12, title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(fmt.Sprintf("Bill number: %d", bill.BillNumber), props.Text{Top: 0}),
			text.New("Date: "+bill.Date.Format("02 Jan 2006"), props.Text{Top: 4}),
			text.New("Payment: "+string(bill.Method), props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New(business.Name, props.Text{Style: fontstyle.Bold}),
			text.New(business.Address, props.Text{Top: 5}),
			text.New(business.Phone, props.Text{Top: 14}),
		),
		col.New(6).Add(
			text.New(counterpart, props.Text{Style: fontstyle.Bold}),
			text.New(bill.PartyName, props.Text{Top: 5}),
			text.New(bill.PartyPhone, props.Text{Top: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range bill.Items {
		m.AddRow(8,
			text.NewCol(6, item.ProductName, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(float64(item.Quantity)*item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, money(bill.Subtotal()), props.Text{Size: 9, Align: align.Right}),
	)
	for _, charge := range bill.Charges {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, charge.Name, props.Text{Size: 9}),
			text.NewCol(2, money(charge.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
	for _, discount := range bill.Discounts {
		label := "Discount"
		if discount.Type == billingdomain.DiscountTypePercentage {
			label = fmt.Sprintf("Discount (%s%%)", trimZeros(discount.Value))
		}
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, label, props.Text{Size: 9}),
			text.NewCol(2, "-"+discountValue(bill, discount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	total := bill.ComputeTotal()
	if bill.TotalAmount != nil {
		total = *bill.TotalAmount
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, money(total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	if bill.BalanceDue != nil {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Balance due", props.Text{Size: 9}),
			text.NewCol(2, money(*bill.BalanceDue), props.Text{Size: 9, Align: align.Right}),
		)
	}

	if bill.Terms != "" {
		m.AddRow(15,
			text.NewCol(12, "Terms: "+bill.Terms, props.Text{Size: 8, Top: 4}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func discountValue(bill *billingdomain.Bill, d billingdomain.Discount) string {
	if d.Type == billingdomain.DiscountTypePercentage {
		return money(bill.Subtotal() * d.Value / 100)
	}
	return money(d.Value)
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
