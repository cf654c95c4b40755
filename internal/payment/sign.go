package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// The gateway signs an exact JSON byte layout: field order, separators and
// types must match its contract bit-for-bit, so the payloads are built by
// hand instead of trusting a marshaller's field ordering.

func registerSign(sessionID string, merchantID int, amount int64, currency, crc string) string {
	payload := fmt.Sprintf(`{"sessionId":"%s","merchantId":%d,"amount":%d,"currency":"%s","crc":"%s"}`,
		sessionID, merchantID, amount, currency, crc)
	sum := sha512.Sum384([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// NotificationSign recomputes the checksum the gateway attaches to a payment
// notification. Webhook verification never trusts the supplied sign field
// without recomputing it from server-held secrets.
func NotificationSign(sessionID string, orderID, amount int64, currency, crc string) string {
	payload := fmt.Sprintf(`{"sessionId":"%s","orderId":%d,"amount":%d,"currency":"%s","crc":"%s"}`,
		sessionID, orderID, amount, currency, crc)
	sum := sha512.Sum384([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func signaturesEqual(a, b string) bool {
	return hmac.Equal([]byte(strings.ToLower(a)), []byte(strings.ToLower(b)))
}

// MinorUnits converts a decimal amount to the gateway's integer minor
// currency unit (grosz), rounding to banish float drift.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
