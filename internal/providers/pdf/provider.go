package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// Provider renders invoice documents.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
}

// Module wires the PDF provider.
var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
