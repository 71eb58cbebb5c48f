package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/receipt"
	"github.com/mmynk/splitbill/internal/storage"
)

// BillService records bills and extracts items from receipt photos.
type BillService struct {
	store     storage.Store
	extractor receipt.Extractor
}

// NewBillService creates a new BillService. extractor may be nil, in which
// case ExtractReceipt reports Unimplemented.
func NewBillService(store storage.Store, extractor receipt.Extractor) *BillService {
	return &BillService{store: store, extractor: extractor}
}

// personIDs returns the set of current person IDs.
func (s *BillService) personIDs(ctx context.Context) (map[string]bool, []string, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]bool, len(people))
	ids := make([]string, len(people))
	for i, p := range people {
		known[p.ID] = true
		ids[i] = p.ID
	}
	return known, ids, nil
}

// CreateBill records a bill. The total is always computed from items, tax
// and service charge.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	msg := req.Msg
	slog.Info("CreateBill request received",
		"payer_id", msg.PayerID,
		"split_type", msg.SplitType,
		"items_count", len(msg.Items),
		"front_only", msg.FrontOnly,
	)

	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	known, ids, err := s.personIDs(ctx)
	if err != nil {
		slog.Error("CreateBill failed to list people", "error", err)
		return nil, storeError(err)
	}
	if !known[msg.PayerID] {
		return nil, invalidArgument(fmt.Errorf("payer_id %q is not a known person", msg.PayerID))
	}

	bill := &models.Bill{
		PayerID:       msg.PayerID,
		Items:         itemsFromMsg(msg.Items),
		Tax:           msg.Tax,
		ServiceCharge: msg.ServiceCharge,
		FrontOnly:     msg.FrontOnly,
		Split:         models.EqualSplit{},
	}
	if err := checkTotal(bill.ComputeTotal()); err != nil {
		return nil, invalidArgument(err)
	}

	if msg.SplitType == string(models.SplitTypeCustom) {
		shares, err := customShares(msg, known, ids)
		if err != nil {
			return nil, invalidArgument(err)
		}
		bill.Split = models.CustomSplit{Shares: shares}
	} else if len(msg.Shares) > 0 {
		return nil, invalidArgument(errors.New("shares are only accepted for custom splits"))
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Bill created", "bill_id", bill.ID, "total", bill.Total)

	return connect.NewResponse(&CreateBillResponse{Bill: billToMsg(bill)}), nil
}

// customShares returns explicit shares as given, or derives them from
// per-item assignments with tax and service charge spread proportionally.
func customShares(msg *CreateBillRequest, known map[string]bool, ids []string) (map[string]float64, error) {
	if len(msg.Shares) > 0 {
		for _, id := range slices.Sorted(maps.Keys(msg.Shares)) {
			if !known[id] {
				return nil, fmt.Errorf("share holder %q is not a known person", id)
			}
		}
		return maps.Clone(msg.Shares), nil
	}

	items := make([]calculator.Item, len(msg.Items))
	for i, item := range msg.Items {
		if len(item.AssignedTo) == 0 {
			return nil, fmt.Errorf("item %q is not assigned to anyone", item.Name)
		}
		for _, id := range item.AssignedTo {
			if !known[id] {
				return nil, fmt.Errorf("item %q is assigned to unknown person %q", item.Name, id)
			}
		}
		items[i] = calculator.Item{
			Description: item.Name,
			Amount:      float64(item.Quantity) * item.UnitPrice,
			AssignedTo:  item.AssignedTo,
		}
	}

	var tax, serviceCharge float64
	if msg.Tax != nil {
		tax = *msg.Tax
	}
	if msg.ServiceCharge != nil {
		serviceCharge = *msg.ServiceCharge
	}
	splits, err := calculator.CalculateSplit(items, tax, serviceCharge, ids)
	if err != nil {
		return nil, err
	}

	shares := calculator.Shares(splits)
	maps.DeleteFunc(shares, func(_ string, amount float64) bool { return amount == 0 })
	return shares, nil
}

// maxBillTotal is the largest total a bill may reach.
const maxBillTotal = 1e18

func checkTotal(total float64) error {
	if math.IsNaN(total) || math.IsInf(total, 0) || total > maxBillTotal {
		return fmt.Errorf("bill total %v exceeds %v", total, maxBillTotal)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		slog.Error("GetBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&GetBillResponse{Bill: billToMsg(bill)}), nil
}

// ListBills returns every bill in creation order.
func (s *BillService) ListBills(ctx context.Context, _ *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		slog.Error("ListBills failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]Bill, len(bills))
	for i := range bills {
		out[i] = billToMsg(&bills[i])
	}
	return connect.NewResponse(&ListBillsResponse{Bills: out}), nil
}

// UpdateBillItems replaces a bill's items and recomputes its total. Custom
// shares are left untouched; if they no longer add up the next settlement
// reports a share mismatch.
func (s *BillService) UpdateBillItems(ctx context.Context, req *connect.Request[UpdateBillItemsRequest]) (*connect.Response[UpdateBillItemsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	items := itemsFromMsg(req.Msg.Items)
	if err := checkTotal((&models.Bill{Items: items}).Subtotal()); err != nil {
		return nil, invalidArgument(err)
	}

	bill, err := s.store.UpdateBillItems(ctx, req.Msg.BillID, items)
	if err != nil {
		slog.Error("UpdateBillItems failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Bill items updated", "bill_id", bill.ID, "items_count", len(bill.Items), "total", bill.Total)

	return connect.NewResponse(&UpdateBillItemsResponse{Bill: billToMsg(bill)}), nil
}

// DeleteBill removes a bill.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Bill deleted", "bill_id", req.Msg.BillID)

	return connect.NewResponse(&DeleteBillResponse{}), nil
}

// ClearBills removes every bill and resets payment statuses.
func (s *BillService) ClearBills(ctx context.Context, _ *connect.Request[ClearBillsRequest]) (*connect.Response[ClearBillsResponse], error) {
	if err := s.store.ClearBills(ctx); err != nil {
		slog.Error("ClearBills failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("All bills cleared")

	return connect.NewResponse(&ClearBillsResponse{}), nil
}

// ExtractReceipt reads items, tax and service charge from a receipt photo.
// Nothing is stored; the client reviews the result and calls CreateBill.
func (s *BillService) ExtractReceipt(ctx context.Context, req *connect.Request[ExtractReceiptRequest]) (*connect.Response[ExtractReceiptResponse], error) {
	if s.extractor == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("receipt extraction is not configured"))
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	r, err := s.extractor.Extract(ctx, req.Msg.Image, req.Msg.MimeType)
	switch {
	case errors.Is(err, receipt.ErrEmptyImage):
		return nil, invalidArgument(err)
	case errors.Is(err, receipt.ErrInvalidResponse):
		slog.Warn("ExtractReceipt produced no usable receipt", "error", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	case err != nil:
		slog.Error("ExtractReceipt failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	return connect.NewResponse(&ExtractReceiptResponse{
		Items:         itemsToMsg(r.Items),
		Tax:           r.Tax,
		ServiceCharge: r.ServiceCharge,
	}), nil
}
