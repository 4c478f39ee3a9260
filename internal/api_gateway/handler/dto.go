package handler

// CreateBillRequest represents a request to record a new obligation
type CreateBillRequest struct {
	Owner         string `json:"owner" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	DueDate       int64  `json:"due_date" binding:"required"`
	Recurring     bool   `json:"recurring"`
	FrequencyDays uint32 `json:"frequency_days"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID            int64  `json:"id"`
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	Amount        int64  `json:"amount"`
	DueDate       int64  `json:"due_date"`
	Recurring     bool   `json:"recurring"`
	FrequencyDays uint32 `json:"frequency_days"`
	Paid          bool   `json:"paid"`
	CreatedAt     int64  `json:"created_at"`
	PaidAt        *int64 `json:"paid_at,omitempty"`
}

// SettleBillResponse carries the settled bill plus the identifier of the
// successor spawned for recurring bills (0 when none)
type SettleBillResponse struct {
	Bill        BillResponse `json:"bill"`
	SuccessorID int64        `json:"successor_id,omitempty"`
}

// BatchSettleRequest represents a request to settle several bills at once
type BatchSettleRequest struct {
	BillIDs []int64 `json:"bill_ids" binding:"required,min=1"`
}

// BillListResponse represents a list of bills in API responses
type BillListResponse struct {
	Bills []BillResponse `json:"bills"`
}

// TotalResponse represents a summed amount in API responses
type TotalResponse struct {
	Total int64 `json:"total"`
}

// SplitConfigRequest carries the four allocation percentages. Owner is only
// required on initialization.
type SplitConfigRequest struct {
	Owner            string `json:"owner"`
	SpendingPercent  uint32 `json:"spending_percent"`
	SavingsPercent   uint32 `json:"savings_percent"`
	BillsPercent     uint32 `json:"bills_percent"`
	InsurancePercent uint32 `json:"insurance_percent"`
}

// SplitConfigResponse represents the split configuration in API responses
type SplitConfigResponse struct {
	Owner            string `json:"owner"`
	SpendingPercent  uint32 `json:"spending_percent"`
	SavingsPercent   uint32 `json:"savings_percent"`
	BillsPercent     uint32 `json:"bills_percent"`
	InsurancePercent uint32 `json:"insurance_percent"`
	UpdatedAt        int64  `json:"updated_at"`
}

// CalculateSplitRequest represents a request to partition an amount
type CalculateSplitRequest struct {
	TotalAmount int64 `json:"total_amount" binding:"required,gt=0"`
}

// AllocationResponse pairs a category with its share
type AllocationResponse struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// CalculateSplitResponse represents the four computed shares
type CalculateSplitResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	Total       int64                `json:"total"`
}

// CreateGoalRequest represents a request to open a savings goal
type CreateGoalRequest struct {
	Owner        string `json:"owner" binding:"required"`
	Name         string `json:"name" binding:"required"`
	TargetAmount int64  `json:"target_amount" binding:"required,gt=0"`
	TargetDate   int64  `json:"target_date"`
}

// DepositRequest represents a deposit toward a goal
type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// GoalResponse represents a savings goal in API responses
type GoalResponse struct {
	ID            int64  `json:"id"`
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	TargetAmount  int64  `json:"target_amount"`
	CurrentAmount int64  `json:"current_amount"`
	TargetDate    int64  `json:"target_date"`
	Locked        bool   `json:"locked"`
	Completed     bool   `json:"completed"`
	CreatedAt     int64  `json:"created_at"`
}

// GoalListResponse represents a list of goals in API responses
type GoalListResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// CreatePolicyRequest represents a request to open an insurance policy
type CreatePolicyRequest struct {
	Owner          string `json:"owner" binding:"required"`
	Name           string `json:"name" binding:"required"`
	CoverageType   string `json:"coverage_type" binding:"required"`
	MonthlyPremium int64  `json:"monthly_premium" binding:"required,gt=0"`
	CoverageAmount int64  `json:"coverage_amount" binding:"required,gt=0"`
}

// PolicyResponse represents an insurance policy in API responses
type PolicyResponse struct {
	ID              int64  `json:"id"`
	Owner           string `json:"owner"`
	Name            string `json:"name"`
	CoverageType    string `json:"coverage_type"`
	MonthlyPremium  int64  `json:"monthly_premium"`
	CoverageAmount  int64  `json:"coverage_amount"`
	Active          bool   `json:"active"`
	NextPaymentDate int64  `json:"next_payment_date"`
	CreatedAt       int64  `json:"created_at"`
}

// PolicyListResponse represents a list of policies in API responses
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}
