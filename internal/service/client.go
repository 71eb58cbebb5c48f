package service

import (
	"connectrpc.com/connect"
)

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// PeopleServiceClient calls PeopleService over Connect.
type PeopleServiceClient struct {
	CreatePerson *connect.Client[CreatePersonRequest, CreatePersonResponse]
	ListPeople   *connect.Client[ListPeopleRequest, ListPeopleResponse]
	DeletePerson *connect.Client[DeletePersonRequest, DeletePersonResponse]
}

// NewPeopleServiceClient creates a client for the server at baseURL.
func NewPeopleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PeopleServiceClient {
	opts = clientOptions(opts)
	return &PeopleServiceClient{
		CreatePerson: connect.NewClient[CreatePersonRequest, CreatePersonResponse](httpClient, baseURL+PeopleServiceCreatePersonProcedure, opts...),
		ListPeople:   connect.NewClient[ListPeopleRequest, ListPeopleResponse](httpClient, baseURL+PeopleServiceListPeopleProcedure, opts...),
		DeletePerson: connect.NewClient[DeletePersonRequest, DeletePersonResponse](httpClient, baseURL+PeopleServiceDeletePersonProcedure, opts...),
	}
}

// BillServiceClient calls BillService over Connect.
type BillServiceClient struct {
	CreateBill      *connect.Client[CreateBillRequest, CreateBillResponse]
	GetBill         *connect.Client[GetBillRequest, GetBillResponse]
	ListBills       *connect.Client[ListBillsRequest, ListBillsResponse]
	UpdateBillItems *connect.Client[UpdateBillItemsRequest, UpdateBillItemsResponse]
	DeleteBill      *connect.Client[DeleteBillRequest, DeleteBillResponse]
	ClearBills      *connect.Client[ClearBillsRequest, ClearBillsResponse]
	ExtractReceipt  *connect.Client[ExtractReceiptRequest, ExtractReceiptResponse]
}

// NewBillServiceClient creates a client for the server at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	opts = clientOptions(opts)
	return &BillServiceClient{
		CreateBill:      connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		GetBill:         connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		ListBills:       connect.NewClient[ListBillsRequest, ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		UpdateBillItems: connect.NewClient[UpdateBillItemsRequest, UpdateBillItemsResponse](httpClient, baseURL+BillServiceUpdateBillItemsProcedure, opts...),
		DeleteBill:      connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		ClearBills:      connect.NewClient[ClearBillsRequest, ClearBillsResponse](httpClient, baseURL+BillServiceClearBillsProcedure, opts...),
		ExtractReceipt:  connect.NewClient[ExtractReceiptRequest, ExtractReceiptResponse](httpClient, baseURL+BillServiceExtractReceiptProcedure, opts...),
	}
}

// SettlementServiceClient calls SettlementService over Connect.
type SettlementServiceClient struct {
	ComputeSettlement *connect.Client[ComputeSettlementRequest, ComputeSettlementResponse]
	SetPaymentStatus  *connect.Client[SetPaymentStatusRequest, SetPaymentStatusResponse]
}

// NewSettlementServiceClient creates a client for the server at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettlementServiceClient {
	opts = clientOptions(opts)
	return &SettlementServiceClient{
		ComputeSettlement: connect.NewClient[ComputeSettlementRequest, ComputeSettlementResponse](httpClient, baseURL+SettlementServiceComputeSettlementProcedure, opts...),
		SetPaymentStatus:  connect.NewClient[SetPaymentStatusRequest, SetPaymentStatusResponse](httpClient, baseURL+SettlementServiceSetPaymentStatusProcedure, opts...),
	}
}
