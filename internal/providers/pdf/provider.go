// Package pdf renders bills as PDF documents.
package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	businessdomain "github.com/smallbiznis/bizbook/internal/business/domain"
)

// Provider renders a bill issued by a business into a printable document.
type Provider interface {
	RenderBill(ctx context.Context, business *businessdomain.Business, bill *billingdomain.Bill) (io.Reader, error)
}

var Module = fx.Module("pdf",
	fx.Provide(New),
)
