package etax

import (
	"context"

	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
)

// DocumentRenderer produces the base64-encoded PDF for one aggregated
// invoice. Implemented by the Gen-PDF API client and, in dev, the local
// Maroto renderer.
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, inv *entity.Invoice) (string, error)
}
