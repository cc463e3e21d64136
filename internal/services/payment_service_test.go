package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	s := NewPaymentService("key_id", "secret", "", "INR", nil, nil, nil)

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_123|pay_456"))
	valid := hex.EncodeToString(mac.Sum(nil))

	if !s.verifySignature("order_123", "pay_456", valid) {
		t.Fatal("valid signature rejected")
	}
	if s.verifySignature("order_123", "pay_456", "deadbeef") {
		t.Fatal("forged signature accepted")
	}
	if s.verifySignature("order_999", "pay_456", valid) {
		t.Fatal("signature accepted for wrong order")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)

	s := NewPaymentService("key_id", "secret", "whsec", "INR", nil, nil, nil)
	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	if !s.VerifyWebhookSignature(body, valid) {
		t.Fatal("valid webhook signature rejected")
	}
	if s.VerifyWebhookSignature(body, "bogus") {
		t.Fatal("forged webhook signature accepted")
	}

	// Without a configured webhook secret verification is skipped
	open := NewPaymentService("key_id", "secret", "", "INR", nil, nil, nil)
	if !open.VerifyWebhookSignature(body, "anything") {
		t.Fatal("unconfigured webhook secret should skip verification")
	}
}

func TestPaymentServiceEnabled(t *testing.T) {
	if NewPaymentService("", "", "", "INR", nil, nil, nil).Enabled() {
		t.Fatal("service without credentials should be disabled")
	}
	if !NewPaymentService("k", "s", "", "INR", nil, nil, nil).Enabled() {
		t.Fatal("service with credentials should be enabled")
	}
}
