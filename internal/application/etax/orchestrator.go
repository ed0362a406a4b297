package etax

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/etax-pipeline/internal/application/dto"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	dometax "github.com/jhoicas/etax-pipeline/internal/domain/etax"
	"github.com/jhoicas/etax-pipeline/internal/domain/repository"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/axons"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/etda"
	"github.com/jhoicas/etax-pipeline/pkg/logger"
)

// Orchestrator drives the submission cycle for aggregated invoices:
//
//	journal PENDING → render PDF → journal RENDERED → build document →
//	submit → journal SUBMITTED / REJECTED / ERROR
//
// Invoices are independent, so a batch runs them on a bounded worker pool.
// One invoice failing never stops the batch; its journal entry carries the
// failure. A nil gateway (dev mode) stops the cycle after the build step.
type Orchestrator struct {
	renderer DocumentRenderer
	builder  *etda.Builder
	gateway  axons.GatewaySubmitter // nil in dev
	journal  repository.SubmissionRepository
	workers  int
	log      *logger.Logger

	// Status poll identity fields.
	sellerTaxID  string
	sellerBranch string
}

// NewOrchestrator builds the orchestrator. workers below 1 is clamped to 1.
func NewOrchestrator(
	renderer DocumentRenderer,
	builder *etda.Builder,
	gateway axons.GatewaySubmitter,
	journal repository.SubmissionRepository,
	workers int,
	sellerTaxID, sellerBranch string,
	log *logger.Logger,
) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		renderer:     renderer,
		builder:      builder,
		gateway:      gateway,
		journal:      journal,
		workers:      workers,
		sellerTaxID:  sellerTaxID,
		sellerBranch: sellerBranch,
		log:          log,
	}
}

// SubmitBatch runs the submission cycle for every selected invoice and
// reports per-document outcomes in input order.
func (o *Orchestrator) SubmitBatch(ctx context.Context, invoices []*entity.Invoice, req dto.SubmitRequest) *dto.SubmitResponse {
	selected := filterInvoices(invoices, req.DocNumbers)

	results := make([]dto.SubmitItemResult, len(selected))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.processOne(ctx, selected[i], req.DryRun)
			}
		}()
	}
	for i := range selected {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	resp := &dto.SubmitResponse{Results: results}
	for _, r := range results {
		switch r.Status {
		case entity.SubmissionSubmitted:
			resp.Submitted++
		case entity.SubmissionRejected:
			resp.Rejected++
		case entity.SubmissionError:
			resp.Failed++
		}
	}

	o.log.Info().
		Int("invoices", len(selected)).
		Int("submitted", resp.Submitted).
		Int("rejected", resp.Rejected).
		Int("failed", resp.Failed).
		Bool("dry_run", req.DryRun).
		Msg("submission batch finished")

	return resp
}

// processOne runs the full cycle for one invoice. Every exit path leaves a
// final journal status behind.
func (o *Orchestrator) processOne(ctx context.Context, inv *entity.Invoice, dryRun bool) dto.SubmitItemResult {
	hdr := inv.Header()
	docNumber := ""
	if hdr != nil {
		docNumber = hdr.DocNumber
	}

	sub := &entity.Submission{
		DocNumber: docNumber,
		Status:    entity.SubmissionPending,
	}
	if err := o.journal.Create(ctx, sub); err != nil {
		o.log.Error().Err(err).Str("doc", docNumber).Msg("journal create failed")
		return dto.SubmitItemResult{DocNumber: docNumber, Status: entity.SubmissionError, Error: err.Error()}
	}

	fail := func(step string, err error) dto.SubmitItemResult {
		sub.Status = entity.SubmissionError
		sub.ErrorMsg = fmt.Sprintf("%s: %v", step, err)
		if uerr := o.journal.UpdateStatus(ctx, sub); uerr != nil {
			o.log.Error().Err(uerr).Str("doc", docNumber).Msg("journal update failed")
		}
		o.log.Error().Err(err).Str("doc", docNumber).Str("step", step).Msg("submission cycle failed")
		return dto.SubmitItemResult{DocNumber: docNumber, Status: entity.SubmissionError, Error: sub.ErrorMsg}
	}

	pdf, err := o.renderer.RenderInvoice(ctx, inv)
	if err != nil {
		return fail("render", err)
	}
	sub.Status = entity.SubmissionRendered
	if err := o.journal.UpdateStatus(ctx, sub); err != nil {
		o.log.Error().Err(err).Str("doc", docNumber).Msg("journal update failed")
	}

	doc, channel, err := o.builder.Build(inv, pdf)
	if err != nil {
		return fail("build", err)
	}
	sub.DocType = channel

	if o.gateway == nil || dryRun {
		// Dev or dry-run mode ends the cycle at the rendered document.
		if err := o.journal.UpdateStatus(ctx, sub); err != nil {
			o.log.Error().Err(err).Str("doc", docNumber).Msg("journal update failed")
		}
		return dto.SubmitItemResult{DocNumber: docNumber, Channel: channel, Status: entity.SubmissionRendered}
	}

	res, err := o.gateway.Submit(ctx, doc, channel)
	if err != nil {
		return fail("submit", err)
	}

	sub.HTTPStatus = res.HTTPStatus
	sub.Response = string(res.Response)
	if res.Accepted() {
		sub.Status = entity.SubmissionSubmitted
	} else {
		sub.Status = entity.SubmissionRejected
	}
	if err := o.journal.UpdateStatus(ctx, sub); err != nil {
		o.log.Error().Err(err).Str("doc", docNumber).Msg("journal update failed")
	}

	o.log.Info().
		Str("doc", docNumber).
		Str("channel", channel).
		Int("http_status", res.HTTPStatus).
		Str("status", sub.Status).
		Msg("document submitted")

	return dto.SubmitItemResult{
		DocNumber:  docNumber,
		Channel:    channel,
		Status:     sub.Status,
		HTTPStatus: res.HTTPStatus,
	}
}

// CheckStatus polls the gateway for a submitted document's processing state.
func (o *Orchestrator) CheckStatus(ctx context.Context, req dto.StatusRequest) (*axons.SubmitResult, error) {
	if o.gateway == nil {
		return nil, fmt.Errorf("status polling needs a configured gateway")
	}
	q := axons.StatusQuery{
		DocNumber:     req.DocNumber,
		DocDate:       dometax.FormatDateISO(req.DocDate),
		ComTaxID:      dometax.PadTaxID(o.sellerTaxID),
		Branch:        o.sellerBranch,
		InternalDocNo: req.InternalDocNo,
		DocType:       req.DocType,
	}
	return o.gateway.CheckStatus(ctx, q)
}

// filterInvoices keeps the invoices whose document number is in keep; an
// empty keep list selects everything.
func filterInvoices(invoices []*entity.Invoice, keep []string) []*entity.Invoice {
	if len(keep) == 0 {
		return invoices
	}
	want := make(map[string]bool, len(keep))
	for _, n := range keep {
		want[n] = true
	}
	var out []*entity.Invoice
	for _, inv := range invoices {
		if hdr := inv.Header(); hdr != nil && want[hdr.DocNumber] {
			out = append(out, inv)
		}
	}
	return out
}
