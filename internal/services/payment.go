package services

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	razorpayutils "github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Currency all gateway intents are created in.
const Currency = "INR"

// PaymentGateway abstracts the payment provider: create a remote intent for
// an amount in minor units, and verify the signature the client posts back
// after the payment widget completes.
type PaymentGateway interface {
	CreateIntent(amountPaise int64, receipt string, notes map[string]interface{}) (string, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string
}

// RazorpayGateway talks to Razorpay through the official SDK.
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
	log    *zap.Logger
}

// NewRazorpayGateway constructs a RazorpayGateway.
func NewRazorpayGateway(keyID, keySecret string, log *zap.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
		secret: keySecret,
		log:    log.With(zap.String("service", "razorpay")),
	}
}

// KeyID returns the publishable key the checkout widget needs.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateIntent creates a Razorpay order for the amount in paise and returns
// its id.
func (g *RazorpayGateway) CreateIntent(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": Currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.log.Error("gateway order create failed",
			zap.String("receipt", receipt),
			zap.Int64("amount_paise", amountPaise),
			zap.Error(err),
		)
		return "", fmt.Errorf("create gateway order for %s: %w", receipt, err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("create gateway order for %s: no id in response", receipt)
	}

	g.log.Info("gateway order created",
		zap.String("receipt", receipt),
		zap.String("gateway_order_id", id),
		zap.Int64("amount_paise", amountPaise),
	)
	return id, nil
}

// VerifySignature checks the HMAC the client received from the payment
// widget. The SDK owns the cryptography.
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}
	return razorpayutils.VerifyPaymentSignature(params, signature, g.secret)
}

// ToPaise converts a rupee amount to the gateway's minor-unit representation.
// Decimal arithmetic avoids the off-by-one-paisa truncation float math gives
// for amounts like 299.70.
func ToPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
