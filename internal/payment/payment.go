package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidCard = errors.New("invalid card")

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type RefusalReason string

const (
	RefusalNone              RefusalReason = ""
	RefusalInsufficientFunds RefusalReason = "insufficient_funds"
	RefusalCardDeclined      RefusalReason = "card_declined"
	RefusalUnknown           RefusalReason = "unknown"
)

// Card holds raw card input. It is only shape checked and must never be
// persisted or logged.
type Card struct {
	Number string
	Expiry string
	CVC    string
}

func (c Card) Validate() error {
	switch {
	case !ValidNumber(c.Number):
		return fmt.Errorf("%w: card_number", ErrInvalidCard)
	case !ValidExpiry(c.Expiry):
		return fmt.Errorf("%w: card_expiry", ErrInvalidCard)
	case !ValidCVC(c.CVC):
		return fmt.Errorf("%w: card_cvc", ErrInvalidCard)
	}
	return nil
}

type ChargeRequest struct {
	Reference string
	Email     string
	Amount    decimal.Decimal
	Card      Card
}

type ChargeResult struct {
	Status        Status
	TransactionID string
	Refusal       RefusalReason
}

func (r ChargeResult) Approved() bool {
	return r.Status == StatusCompleted
}

type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// StatusSource decides the outcome of a simulated charge.
type StatusSource interface {
	GetStatus(req ChargeRequest) (Status, RefusalReason)
}

type approveAll struct{}

func (approveAll) GetStatus(ChargeRequest) (Status, RefusalReason) {
	return StatusCompleted, RefusalNone
}

// SimulatedCharger stands in for a payment gateway. No card data leaves the
// process.
type SimulatedCharger struct {
	status StatusSource
}

// NewSimulatedCharger approves every well-formed card unless a different
// StatusSource is given.
func NewSimulatedCharger(status StatusSource) *SimulatedCharger {
	if status == nil {
		status = approveAll{}
	}
	return &SimulatedCharger{status: status}
}

func (s *SimulatedCharger) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return ChargeResult{}, err
	}
	if err := req.Card.Validate(); err != nil {
		return ChargeResult{}, err
	}
	if req.Amount.IsNegative() {
		return ChargeResult{}, fmt.Errorf("negative charge amount %s", req.Amount)
	}

	status, refusal := s.status.GetStatus(req)
	return ChargeResult{
		Status:        status,
		TransactionID: "TXN-" + uuid.NewString(),
		Refusal:       refusal,
	}, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidNumber accepts 12 to 19 digits, ignoring spaces and dashes.
func ValidNumber(number string) bool {
	n := strings.NewReplacer(" ", "", "-", "").Replace(number)
	return len(n) >= 12 && len(n) <= 19 && digitsOnly(n)
}

// ValidExpiry accepts MM/YY and MM/YYYY.
func ValidExpiry(expiry string) bool {
	month, year, ok := strings.Cut(expiry, "/")
	if !ok || len(month) != 2 || (len(year) != 2 && len(year) != 4) {
		return false
	}
	if !digitsOnly(month) || !digitsOnly(year) {
		return false
	}
	return month >= "01" && month <= "12"
}

func ValidCVC(cvc string) bool {
	return (len(cvc) == 3 || len(cvc) == 4) && digitsOnly(cvc)
}
