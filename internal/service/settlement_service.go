package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// SettlementService computes who pays whom and tracks which transfers
// have been paid.
type SettlementService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewSettlementService creates a new SettlementService. m may be nil.
func NewSettlementService(store storage.Store, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, metrics: m}
}

// ComputeSettlement runs the settlement engine over the stored people and
// bills. Payment statuses are joined onto the transfers afterwards and never
// affect the amounts.
func (s *SettlementService) ComputeSettlement(ctx context.Context, _ *connect.Request[ComputeSettlementRequest]) (*connect.Response[ComputeSettlementResponse], error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		slog.Error("ComputeSettlement failed to list people", "error", err)
		return nil, storeError(err)
	}
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		slog.Error("ComputeSettlement failed to list bills", "error", err)
		return nil, storeError(err)
	}
	statuses, err := s.store.ListPaymentStatuses(ctx)
	if err != nil {
		slog.Error("ComputeSettlement failed to list payment statuses", "error", err)
		return nil, storeError(err)
	}

	res := calculator.ComputeSettlement(people, bills)

	requestID := middleware.RequestID(ctx)
	for _, d := range res.Diagnostics {
		slog.WarnContext(ctx, "Settlement diagnostic",
			"kind", d.Kind,
			"bill_id", d.BillID,
			"person_id", d.PersonID,
			"detail", d.Detail,
			"request_id", requestID,
		)
	}
	s.metrics.ObserveSettlement(res)

	paid := make(map[models.PaymentKey]bool, len(statuses))
	for _, st := range statuses {
		paid[st.Key()] = st.Status == models.PaymentPaid
	}

	slog.Info("Settlement computed",
		"people", len(people),
		"bills", len(bills),
		"transfers", len(res.Settlements),
		"diagnostics", len(res.Diagnostics),
		"request_id", requestID,
	)

	return connect.NewResponse(settlementToMsg(res, paid)), nil
}

// SetPaymentStatus marks the transfer from FromID to ToID as paid or unpaid.
func (s *SettlementService) SetPaymentStatus(ctx context.Context, req *connect.Request[SetPaymentStatusRequest]) (*connect.Response[SetPaymentStatusResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	people, err := s.store.ListPeople(ctx)
	if err != nil {
		slog.Error("SetPaymentStatus failed to list people", "error", err)
		return nil, storeError(err)
	}
	for _, id := range []string{req.Msg.FromID, req.Msg.ToID} {
		if !slices.ContainsFunc(people, func(p models.Person) bool { return p.ID == id }) {
			return nil, invalidArgument(fmt.Errorf("%q is not a known person", id))
		}
	}

	status := &models.PaymentStatus{
		FromID: req.Msg.FromID,
		ToID:   req.Msg.ToID,
		Status: models.PaymentUnpaid,
	}
	if req.Msg.Paid {
		status.Status = models.PaymentPaid
	}
	if err := s.store.SetPaymentStatus(ctx, status); err != nil {
		slog.Error("SetPaymentStatus failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Payment status updated", "from_id", status.FromID, "to_id", status.ToID, "status", status.Status)

	return connect.NewResponse(&SetPaymentStatusResponse{Status: PaymentStatus{
		FromID:    status.FromID,
		ToID:      status.ToID,
		Paid:      status.Status == models.PaymentPaid,
		UpdatedAt: status.UpdatedAt,
	}}), nil
}
