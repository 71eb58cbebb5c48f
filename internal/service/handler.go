package service

import (
	"net/http"

	"connectrpc.com/connect"
)

const (
	PeopleServiceName     = "splitbill.v1.PeopleService"
	BillServiceName       = "splitbill.v1.BillService"
	SettlementServiceName = "splitbill.v1.SettlementService"
)

const (
	PeopleServiceCreatePersonProcedure = "/" + PeopleServiceName + "/CreatePerson"
	PeopleServiceListPeopleProcedure   = "/" + PeopleServiceName + "/ListPeople"
	PeopleServiceDeletePersonProcedure = "/" + PeopleServiceName + "/DeletePerson"

	BillServiceCreateBillProcedure      = "/" + BillServiceName + "/CreateBill"
	BillServiceGetBillProcedure         = "/" + BillServiceName + "/GetBill"
	BillServiceListBillsProcedure       = "/" + BillServiceName + "/ListBills"
	BillServiceUpdateBillItemsProcedure = "/" + BillServiceName + "/UpdateBillItems"
	BillServiceDeleteBillProcedure      = "/" + BillServiceName + "/DeleteBill"
	BillServiceClearBillsProcedure      = "/" + BillServiceName + "/ClearBills"
	BillServiceExtractReceiptProcedure  = "/" + BillServiceName + "/ExtractReceipt"

	SettlementServiceComputeSettlementProcedure = "/" + SettlementServiceName + "/ComputeSettlement"
	SettlementServiceSetPaymentStatusProcedure  = "/" + SettlementServiceName + "/SetPaymentStatus"
)

// handlerOptions prepends the JSON codec so callers only pass interceptors.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// NewPeopleServiceHandler returns the path prefix and handler serving svc.
func NewPeopleServiceHandler(svc *PeopleService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(PeopleServiceCreatePersonProcedure, connect.NewUnaryHandler(PeopleServiceCreatePersonProcedure, svc.CreatePerson, opts...))
	mux.Handle(PeopleServiceListPeopleProcedure, connect.NewUnaryHandler(PeopleServiceListPeopleProcedure, svc.ListPeople, opts...))
	mux.Handle(PeopleServiceDeletePersonProcedure, connect.NewUnaryHandler(PeopleServiceDeletePersonProcedure, svc.DeletePerson, opts...))
	return "/" + PeopleServiceName + "/", mux
}

// NewBillServiceHandler returns the path prefix and handler serving svc.
func NewBillServiceHandler(svc *BillService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(BillServiceCreateBillProcedure, connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...))
	mux.Handle(BillServiceGetBillProcedure, connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...))
	mux.Handle(BillServiceListBillsProcedure, connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...))
	mux.Handle(BillServiceUpdateBillItemsProcedure, connect.NewUnaryHandler(BillServiceUpdateBillItemsProcedure, svc.UpdateBillItems, opts...))
	mux.Handle(BillServiceDeleteBillProcedure, connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...))
	mux.Handle(BillServiceClearBillsProcedure, connect.NewUnaryHandler(BillServiceClearBillsProcedure, svc.ClearBills, opts...))
	mux.Handle(BillServiceExtractReceiptProcedure, connect.NewUnaryHandler(BillServiceExtractReceiptProcedure, svc.ExtractReceipt, opts...))
	return "/" + BillServiceName + "/", mux
}

// NewSettlementServiceHandler returns the path prefix and handler serving svc.
func NewSettlementServiceHandler(svc *SettlementService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SettlementServiceComputeSettlementProcedure, connect.NewUnaryHandler(SettlementServiceComputeSettlementProcedure, svc.ComputeSettlement, opts...))
	mux.Handle(SettlementServiceSetPaymentStatusProcedure, connect.NewUnaryHandler(SettlementServiceSetPaymentStatusProcedure, svc.SetPaymentStatus, opts...))
	return "/" + SettlementServiceName + "/", mux
}
