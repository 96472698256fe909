package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

var SnapClient snap.Client

// InitMidtrans initializes the Midtrans Snap client with the server key.
func InitMidtrans(serverKey, env string) {
	midtransEnv := midtrans.Sandbox
	if env == "production" {
		midtransEnv = midtrans.Production
	}
	SnapClient.New(serverKey, midtransEnv)
}

// CheckoutSession is the redirect handle returned to the client after a
// Snap transaction is created.
type CheckoutSession struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CreateCheckoutSession requests a Snap transaction for a course purchase.
// The course title rides along as the line item so the hosted checkout page
// shows what is being bought.
// grossAmount converts a course price to the integer amount the gateway
// charges. Rounded, not truncated, so the charge matches the recorded
// purchase amount to the nearest whole unit.
func grossAmount(amount float64) int64 {
	return int64(math.Round(amount))
}

func CreateCheckoutSession(orderID string, amount float64, courseTitle, name, email string) (*CheckoutSession, error) {
	grossAmt := grossAmount(amount)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmt,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Name:  courseTitle,
				Price: grossAmt,
				Qty:   1,
			},
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: email,
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifyNotificationSignature checks the webhook signature key against
// sha512(orderID + statusCode + grossAmount + serverKey). An invalid
// signature must reject the notification outright.
func VerifyNotificationSignature(orderID, statusCode, grossAmount, signatureKey, serverKey string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}

// IsSettled reports whether a notification's transaction status means the
// payment went through. "capture" needs fraud_status accept.
func IsSettled(transactionStatus, fraudStatus string) bool {
	switch transactionStatus {
	case "settlement":
		return true
	case "capture":
		return fraudStatus == "accept"
	}
	return false
}

// IsFailed reports whether a notification terminally failed the payment.
func IsFailed(transactionStatus string) bool {
	switch transactionStatus {
	case "expire", "cancel", "deny":
		return true
	}
	return false
}

// NotificationPayload is the subset of the Midtrans HTTP notification the
// webhook cares about.
type NotificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// Validate checks the fields the signature is computed over are present.
func (p *NotificationPayload) Validate() error {
	if p.OrderID == "" || p.StatusCode == "" || p.GrossAmount == "" || p.SignatureKey == "" {
		return fmt.Errorf("notification payload missing required fields")
	}
	return nil
}
