package service

// Person is a participant of the event.
type Person struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Item is one receipt line. AssignedTo is only read by CreateBill, where it
// derives custom shares from who consumed what.
type Item struct {
	Name       string   `json:"name" validate:"required,max=200"`
	Quantity   int      `json:"quantity" validate:"gte=1,lte=100000"`
	UnitPrice  float64  `json:"unit_price" validate:"gte=0,lte=1000000000000"`
	AssignedTo []string `json:"assigned_to,omitempty"`
}

type Bill struct {
	ID            string             `json:"id"`
	PayerID       string             `json:"payer_id"`
	Items         []Item             `json:"items"`
	Tax           *float64           `json:"tax,omitempty"`
	ServiceCharge *float64           `json:"service_charge,omitempty"`
	Total         float64            `json:"total"`
	SplitType     string             `json:"split_type"`
	FrontOnly     bool               `json:"front_only"`
	Shares        map[string]float64 `json:"shares,omitempty"`
	CreatedAt     int64              `json:"created_at"`
}

// People

type CreatePersonRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreatePersonResponse struct {
	Person Person `json:"person"`
}

type ListPeopleRequest struct{}

type ListPeopleResponse struct {
	People []Person `json:"people"`
}

type DeletePersonRequest struct {
	PersonID string `json:"person_id" validate:"required"`
}

type DeletePersonResponse struct{}

// Bills

type CreateBillRequest struct {
	PayerID       string             `json:"payer_id" validate:"required"`
	Items         []Item             `json:"items" validate:"required,min=1,dive"`
	Tax           *float64           `json:"tax" validate:"omitempty,gte=0,lte=1000000000000"`
	ServiceCharge *float64           `json:"service_charge" validate:"omitempty,gte=0,lte=1000000000000"`
	SplitType     string             `json:"split_type" validate:"omitempty,oneof=equal custom"`
	FrontOnly     bool               `json:"front_only"`
	Shares        map[string]float64 `json:"shares" validate:"omitempty,dive,keys,required,endkeys,gte=0,lte=1000000000000000000"`
}

type CreateBillResponse struct {
	Bill Bill `json:"bill"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type GetBillResponse struct {
	Bill Bill `json:"bill"`
}

type ListBillsRequest struct{}

type ListBillsResponse struct {
	Bills []Bill `json:"bills"`
}

type UpdateBillItemsRequest struct {
	BillID string `json:"bill_id" validate:"required"`
	Items  []Item `json:"items" validate:"required,min=1,dive"`
}

type UpdateBillItemsResponse struct {
	Bill Bill `json:"bill"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type DeleteBillResponse struct{}

type ClearBillsRequest struct{}

type ClearBillsResponse struct{}

// ExtractReceiptRequest carries the raw image; JSON encodes it as base64.
type ExtractReceiptRequest struct {
	Image    []byte `json:"image" validate:"required"`
	MimeType string `json:"mime_type" validate:"omitempty,oneof=image/jpeg image/png image/webp image/heic image/heif"`
}

type ExtractReceiptResponse struct {
	Items         []Item   `json:"items"`
	Tax           *float64 `json:"tax,omitempty"`
	ServiceCharge *float64 `json:"service_charge,omitempty"`
}

// Settlement

type ComputeSettlementRequest struct{}

type BillShare struct {
	BillID           string  `json:"bill_id"`
	PayerID          string  `json:"payer_id"`
	SplitType        string  `json:"split_type"`
	Total            float64 `json:"total"`
	CreatedAt        int64   `json:"created_at"`
	ConsumptionShare float64 `json:"consumption_share"`
	Items            []Item  `json:"items"`
}

type PersonExpense struct {
	Person        Person      `json:"person"`
	Consumption   float64     `json:"consumption"`
	AmountFronted float64     `json:"amount_fronted"`
	Balance       float64     `json:"balance"`
	Bills         []BillShare `json:"bills"`
}

// Settlement is a transfer joined with its payment status.
type Settlement struct {
	FromID   string  `json:"from_id"`
	FromName string  `json:"from_name"`
	ToID     string  `json:"to_id"`
	ToName   string  `json:"to_name"`
	Amount   float64 `json:"amount"`
	Paid     bool    `json:"paid"`
}

type Summary struct {
	Paid       float64 `json:"paid"`
	Owes       float64 `json:"owes"`
	Receives   float64 `json:"receives"`
	NetBalance float64 `json:"net_balance"`
}

type Diagnostic struct {
	Kind     string `json:"kind"`
	BillID   string `json:"bill_id,omitempty"`
	PersonID string `json:"person_id,omitempty"`
	Detail   string `json:"detail"`
}

type ComputeSettlementResponse struct {
	TotalExpenses  float64            `json:"total_expenses"`
	PerPersonShare float64            `json:"per_person_share"`
	PersonExpenses []PersonExpense    `json:"person_expenses"`
	Settlements    []Settlement       `json:"settlements"`
	Summary        map[string]Summary `json:"summary"`
	Diagnostics    []Diagnostic       `json:"diagnostics"`
}

type SetPaymentStatusRequest struct {
	FromID string `json:"from_id" validate:"required"`
	ToID   string `json:"to_id" validate:"required,nefield=FromID"`
	Paid   bool   `json:"paid"`
}

type PaymentStatus struct {
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Paid      bool   `json:"paid"`
	UpdatedAt int64  `json:"updated_at"`
}

type SetPaymentStatusResponse struct {
	Status PaymentStatus `json:"status"`
}
