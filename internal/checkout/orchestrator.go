package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/orderdesk/internal/cart"
	"github.com/angelmondragon/orderdesk/pkg/auth"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/metrics"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/google/uuid"
)

// CartStore is the slice of the cart the orchestrator reads and trims.
type CartStore interface {
	Lines() []cart.Line
	RemoveItems(itemIDs ...int64)
}

// Catalog is the snapshot revalidated before submission.
type Catalog interface {
	Refresh(ctx context.Context) error
	Lookup(id int64) (models.CatalogItem, error)
	ApplyStock(id int64, quantity int)
}

// Writer performs the two remote writes made for every cart line.
type Writer interface {
	CreateOrder(ctx context.Context, body models.OrderWrite) (*models.OrderRecord, error)
	UpdateInventoryItem(ctx context.Context, id int64, body models.InventoryWrite) error
}

// LeaseGuard optionally serialises checkouts for one customer across processes.
type LeaseGuard interface {
	Acquire(ctx context.Context, customer string) (release func(context.Context) error, ok bool, err error)
}

// Deps are the collaborators required by the orchestrator.
type Deps struct {
	Cart        CartStore
	Catalog     Catalog
	Writer      Writer
	Credentials auth.Source
	Logger      *logger.Logger
	Metrics     *metrics.CheckoutMetrics
}

// Option configures optional orchestrator behavior.
type Option func(*Orchestrator)

// WithLeaseGuard refuses checkouts while another process holds the customer's lease.
func WithLeaseGuard(guard LeaseGuard) Option {
	return func(o *Orchestrator) {
		o.lease = guard
	}
}

// WithTransactionIDs overrides the transaction id generator.
func WithTransactionIDs(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.newTxnID = next
		}
	}
}

// WithDefaultPaymentMethod is used when a request names no payment method.
func WithDefaultPaymentMethod(method enums.PaymentMethod) Option {
	return func(o *Orchestrator) {
		if method.IsValid() {
			o.defaultPayment = method
		}
	}
}

// NewTransactionID returns a fresh TXN-prefixed id.
func NewTransactionID() string {
	return "TXN-" + uuid.NewString()
}

// Orchestrator validates a cart against fresh stock and submits it line by line. One orchestrator
// serves one session; concurrent submissions are refused.
type Orchestrator struct {
	cart    CartStore
	catalog Catalog
	writer  Writer
	creds   auth.Source
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics

	lease          LeaseGuard
	newTxnID       func() string
	now            func() time.Time
	defaultPayment enums.PaymentMethod

	mu        sync.Mutex
	state     enums.CheckoutState
	lineIndex int
}

func New(deps Deps, opts ...Option) (*Orchestrator, error) {
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if deps.Writer == nil {
		return nil, fmt.Errorf("remote writer required")
	}
	if deps.Credentials == nil {
		return nil, fmt.Errorf("credential source required")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	o := &Orchestrator{
		cart:           deps.Cart,
		catalog:        deps.Catalog,
		writer:         deps.Writer,
		creds:          deps.Credentials,
		logg:           logg,
		metrics:        deps.Metrics,
		newTxnID:       NewTransactionID,
		now:            time.Now,
		defaultPayment: enums.PaymentMethodUPI,
		state:          enums.CheckoutStateIdle,
		lineIndex:      -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

// Request carries the caller's checkout choices.
type Request struct {
	PaymentMethod string
}

// LineResult reports what happened to one cart line. Order is set whenever the order record was
// created, including when the following stock write failed.
type LineResult struct {
	Line          cart.Line           `json:"line"`
	TransactionID string              `json:"transaction_id"`
	Order         *models.OrderRecord `json:"order,omitempty"`
	StockAfter    *int                `json:"stock_after,omitempty"`
	Err           error               `json:"-"`
}

// Result is the aggregated outcome of a checkout.
type Result struct {
	Outcome   enums.CheckoutOutcome `json:"outcome"`
	Succeeded []LineResult          `json:"succeeded"`
	Failed    *LineResult           `json:"failed,omitempty"`
	Pending   []cart.Line           `json:"pending"`
	// Reason is nil only for Completed.
	Reason error `json:"-"`
	// RefreshErr is set when the catalog could not be refreshed after a completed checkout.
	RefreshErr error `json:"-"`
}

// State returns the current phase and, while submitting, the index of the line in flight.
func (o *Orchestrator) State() (enums.CheckoutState, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.lineIndex
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != enums.CheckoutStateIdle {
		return false
	}
	o.state = enums.CheckoutStateValidating
	o.lineIndex = -1
	return true
}

func (o *Orchestrator) setSubmitting(index int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = enums.CheckoutStateSubmitting
	o.lineIndex = index
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = enums.CheckoutStateIdle
	o.lineIndex = -1
}

// Submit runs one checkout. The returned error is nil only when every line was submitted; for
// PartiallyFailed and Rejected it equals Result.Reason. AlreadyInProgress returns a nil Result.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (result *Result, err error) {
	if !o.begin() {
		return nil, pkgerrors.AlreadyInProgress()
	}
	defer o.finish()

	started := o.now()
	defer func() {
		if result != nil {
			o.metrics.ObserveOutcome(result.Outcome.String(), o.now().Sub(started))
		}
	}()

	lines := o.cart.Lines()
	ctx = o.logg.WithField(ctx, "lines", len(lines))
	o.logg.Info(ctx, "checkout.validating")

	payment, perr := enums.ParsePaymentMethodOrDefault(req.PaymentMethod, o.defaultPayment)
	if perr != nil {
		return o.reject(ctx, lines, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "unknown payment method"))
	}
	if len(lines) == 0 {
		return o.reject(ctx, lines, pkgerrors.EmptyCart())
	}

	creds, cerr := o.creds.Credentials(ctx)
	if cerr != nil {
		if !pkgerrors.IsCode(cerr, pkgerrors.CodeUnauthenticated) {
			cerr = pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, cerr, "no customer identity")
		}
		return o.reject(ctx, lines, cerr)
	}
	ctx = o.logg.WithUsername(ctx, creds.Username)

	if o.lease != nil {
		release, ok, lerr := o.lease.Acquire(ctx, creds.Username)
		if lerr != nil {
			return o.reject(ctx, lines, pkgerrors.NetworkOrService(0, lerr, "acquire checkout lease"))
		}
		if !ok {
			o.logg.Warn(ctx, "checkout.lease_held")
			return nil, pkgerrors.AlreadyInProgress()
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				o.logg.Error(ctx, "checkout.lease_release_failed", rerr)
			}
		}()
	}

	if rerr := o.catalog.Refresh(ctx); rerr != nil {
		return o.reject(ctx, lines, pkgerrors.NetworkOrService(0, rerr, "refresh catalog"))
	}

	observed, verr := o.validate(lines)
	if verr != nil {
		return o.reject(ctx, lines, verr)
	}

	if cerr := ctx.Err(); cerr != nil {
		return o.reject(ctx, lines, pkgerrors.NetworkOrService(0, cerr, "checkout cancelled before submission"))
	}

	// Once the first write is issued the loop runs to completion or first failure.
	return o.submit(context.WithoutCancel(ctx), lines, observed, creds.Username, payment)
}

// validate checks every line against the refreshed snapshot and returns the stock observed for each.
// Items missing from the snapshot count as zero stock.
func (o *Orchestrator) validate(lines []cart.Line) (map[int64]models.CatalogItem, error) {
	observed := make(map[int64]models.CatalogItem, len(lines))
	var (
		first      *pkgerrors.Error
		violations []map[string]any
	)
	for _, line := range lines {
		item, err := o.catalog.Lookup(line.ItemID)
		if err != nil {
			item = models.CatalogItem{ID: line.ItemID, ItemName: line.ItemName}
		}
		observed[line.ItemID] = item
		if item.Quantity >= line.Quantity {
			continue
		}
		if first == nil {
			first = pkgerrors.InsufficientStock(line.ItemID, line.Quantity, item.Quantity)
		}
		violations = append(violations, map[string]any{
			"item_id":   line.ItemID,
			"requested": line.Quantity,
			"available": item.Quantity,
		})
	}
	if first == nil {
		return observed, nil
	}
	details := first.Details().(map[string]any)
	details["violations"] = violations
	return nil, first
}

func (o *Orchestrator) submit(ctx context.Context, lines []cart.Line, observed map[int64]models.CatalogItem, customer string, payment enums.PaymentMethod) (*Result, error) {
	result := &Result{Succeeded: []LineResult{}, Pending: []cart.Line{}}

	for i, line := range lines {
		o.setSubmitting(i)
		lr := o.submitLine(ctx, i, line, observed[line.ItemID], customer, payment)
		if lr.Err != nil {
			o.metrics.IncLineFailed()
			result.Failed = &lr
			result.Pending = append(result.Pending, lines[i+1:]...)
			break
		}
		o.metrics.IncLineSubmitted()
		result.Succeeded = append(result.Succeeded, lr)
	}

	// Only submitted lines leave the cart; lines added meanwhile stay for the next checkout.
	done := make([]int64, 0, len(result.Succeeded))
	for _, lr := range result.Succeeded {
		done = append(done, lr.Line.ItemID)
	}
	o.cart.RemoveItems(done...)

	if result.Failed == nil {
		result.Outcome = enums.CheckoutOutcomeCompleted
		if err := o.catalog.Refresh(ctx); err != nil {
			result.RefreshErr = err
			o.logg.Warn(o.logg.WithField(ctx, "error", err.Error()), "checkout.refresh_after_completion_failed")
		}
		o.logg.Info(o.logg.WithField(ctx, "submitted", len(result.Succeeded)), "checkout.completed")
		return result, nil
	}

	result.Reason = result.Failed.Err
	// An order created before a failed decrement is a remote mutation, so the checkout is partial.
	if len(result.Succeeded) == 0 && result.Failed.Order == nil {
		result.Outcome = enums.CheckoutOutcomeRejected
		o.logg.Error(ctx, "checkout.rejected", result.Reason)
		return result, result.Reason
	}

	result.Outcome = enums.CheckoutOutcomePartiallyFailed
	o.logg.Error(o.logg.WithFields(ctx, map[string]any{
		"submitted": len(result.Succeeded),
		"pending":   len(result.Pending),
		"orphan":    result.Failed.Order != nil,
	}), "checkout.partially_failed", result.Reason)
	return result, result.Reason
}

func (o *Orchestrator) submitLine(ctx context.Context, index int, line cart.Line, item models.CatalogItem, customer string, payment enums.PaymentMethod) LineResult {
	txnID := o.newTxnID()
	lr := LineResult{Line: line, TransactionID: txnID}
	ctx = o.logg.WithFields(ctx, map[string]any{
		"line_index":     index,
		"item_id":        line.ItemID,
		"transaction_id": txnID,
	})

	order, err := o.writer.CreateOrder(ctx, models.OrderWrite{
		CustomerName:  customer,
		ProductName:   line.ItemName,
		Quantity:      line.Quantity,
		Price:         line.Subtotal().InexactFloat64(),
		TransactionID: txnID,
		PaymentMethod: payment.String(),
		Status:        enums.OrderStatusPending.String(),
	})
	if err != nil {
		lr.Err = pkgerrors.NetworkOrService(line.ItemID, err, "create order")
		o.logg.Error(ctx, "checkout.line.failed", lr.Err)
		return lr
	}
	lr.Order = order

	stockAfter := item.Quantity - line.Quantity
	if err := o.writer.UpdateInventoryItem(ctx, line.ItemID, item.WriteBody(stockAfter)); err != nil {
		// The order record stays on the remote service.
		lr.Err = pkgerrors.NetworkOrService(line.ItemID, err, "decrement stock")
		o.logg.Error(o.logg.WithField(ctx, "orphan_order", true), "checkout.line.failed", lr.Err)
		return lr
	}
	o.catalog.ApplyStock(line.ItemID, stockAfter)
	lr.StockAfter = &stockAfter

	o.logg.Info(o.logg.WithField(ctx, "stock_after", stockAfter), "checkout.line.submitted")
	return lr
}

func (o *Orchestrator) reject(ctx context.Context, lines []cart.Line, reason error) (*Result, error) {
	o.logg.Warn(o.logg.WithField(ctx, "reason", pkgerrors.CodeOf(reason)), "checkout.rejected")
	return &Result{
		Outcome:   enums.CheckoutOutcomeRejected,
		Succeeded: []LineResult{},
		Pending:   lines,
		Reason:    reason,
	}, reason
}
