package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the expected callback signature for a payment:
// HMAC-SHA256 over "gatewayOrderID|gatewayPaymentID" keyed with the
// gateway secret, hex encoded.
func Signature(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature and compares it to
// the provided one in constant time.
func VerifySignature(secret, gatewayOrderID, gatewayPaymentID, provided string) bool {
	expected := Signature(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(provided))
}
