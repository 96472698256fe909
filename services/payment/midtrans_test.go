package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signatureFor(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestVerifyNotificationSignature(t *testing.T) {
	serverKey := "SB-Mid-server-testkey"
	sig := signatureFor("COURSE-1-abc", "200", "149000.00", serverKey)

	assert.True(t, VerifyNotificationSignature("COURSE-1-abc", "200", "149000.00", sig, serverKey))

	// Any tampered field must fail
	assert.False(t, VerifyNotificationSignature("COURSE-2-abc", "200", "149000.00", sig, serverKey))
	assert.False(t, VerifyNotificationSignature("COURSE-1-abc", "201", "149000.00", sig, serverKey))
	assert.False(t, VerifyNotificationSignature("COURSE-1-abc", "200", "1.00", sig, serverKey))
	assert.False(t, VerifyNotificationSignature("COURSE-1-abc", "200", "149000.00", sig, "other-key"))
	assert.False(t, VerifyNotificationSignature("COURSE-1-abc", "200", "149000.00", "", serverKey))
}

func TestGrossAmount(t *testing.T) {
	assert.Equal(t, int64(149000), grossAmount(149000))
	assert.Equal(t, int64(150000), grossAmount(149999.50))
	assert.Equal(t, int64(149999), grossAmount(149999.49))
	assert.Equal(t, int64(0), grossAmount(0))
}

func TestIsSettled(t *testing.T) {
	assert.True(t, IsSettled("settlement", ""))
	assert.True(t, IsSettled("capture", "accept"))
	assert.False(t, IsSettled("capture", "challenge"))
	assert.False(t, IsSettled("pending", ""))
	assert.False(t, IsSettled("deny", ""))
}

func TestIsFailed(t *testing.T) {
	assert.True(t, IsFailed("expire"))
	assert.True(t, IsFailed("cancel"))
	assert.True(t, IsFailed("deny"))
	assert.False(t, IsFailed("settlement"))
	assert.False(t, IsFailed("pending"))
}

func TestNotificationPayloadValidate(t *testing.T) {
	payload := NotificationPayload{
		OrderID:      "COURSE-1-abc",
		StatusCode:   "200",
		GrossAmount:  "149000.00",
		SignatureKey: "sig",
	}
	assert.NoError(t, payload.Validate())

	payload.SignatureKey = ""
	assert.Error(t, payload.Validate())
}
