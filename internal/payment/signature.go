package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature calcula la firma hex HMAC-SHA256 de "orderID|paymentID".
func Signature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compara la firma enviada por la pasarela con la esperada.
// Cualquier diferencia, secreto vacío o firma mal formada es una verificación fallida.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(Signature(orderID, paymentID, secret))
	return hmac.Equal(got, want)
}
