package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/savrly/savr/internal/core/logger"
)

// vpaRegexp matches the handle@provider shape of a UPI virtual payment
// address. This is a format check only, never a bank verification.
var vpaRegexp = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{3,}$`)

var knownUpiHandles = map[string]struct{}{
	"okicici": {},
	"okhdfc":  {},
	"ybl":     {},
	"paytm":   {},
	"oksbi":   {},
	"upi":     {},
	"axl":     {},
	"ibl":     {},
}

type UpiVerification struct {
	Valid    bool   `json:"valid"`
	Verified bool   `json:"verified"`
	Name     string `json:"name,omitempty"`
	Message  string `json:"message,omitempty"`
}

type MockPayment struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	UpiID         string `json:"upi_id"`
}

// Payments covers the simulated payment surface: heuristic UPI validation
// and a mock payment initiator. No real gateway is involved.
type Payments interface {
	VerifyUpiID(ctx context.Context, vpa string) (*UpiVerification, error)
	InitiateMockPayment(ctx context.Context, amount int64, upiID string) (*MockPayment, error)
}

type payments struct {
	log logger.Logger
}

func NewPayments(log logger.Logger) Payments {
	return &payments{log: log}
}

func (p *payments) VerifyUpiID(ctx context.Context, vpa string) (*UpiVerification, error) {
	if !vpaRegexp.MatchString(vpa) {
		return &UpiVerification{
			Valid:   false,
			Message: "Invalid UPI ID format",
		}, nil
	}

	handle := strings.ToLower(vpa[strings.Index(vpa, "@")+1:])
	if _, known := knownUpiHandles[handle]; !known {
		p.log.Warn("unknown UPI provider handle",
			logger.StringField("handle", handle),
		)
	}

	return &UpiVerification{
		Valid:    true,
		Verified: false,
		Name:     "User (Unverified)",
		Message:  "UPI ID saved (not bank-verified)",
	}, nil
}

func (p *payments) InitiateMockPayment(ctx context.Context, amount int64, upiID string) (*MockPayment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &MockPayment{
		Success:       true,
		Message:       "Payment simulated successfully",
		TransactionID: fmt.Sprintf("txn_mock_%d", time.Now().UnixMilli()),
		Amount:        amount,
		UpiID:         upiID,
	}, nil
}
