package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eccentriccoder01/Bharatshaala/pkg/config"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	c, err := NewClient(context.Background(), config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
	}, logg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClientValidatesCredentials(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	if _, err := NewClient(context.Background(), config.RazorpayConfig{KeySecret: "s"}, logg); err == nil {
		t.Fatal("expected missing key id to error")
	}
	if _, err := NewClient(context.Background(), config.RazorpayConfig{KeyID: "k"}, logg); err == nil {
		t.Fatal("expected missing key secret to error")
	}
	if _, err := NewClient(context.Background(), config.RazorpayConfig{KeyID: "k", KeySecret: "s"}, nil); err == nil {
		t.Fatal("expected missing logger to error")
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Fatalf("missing basic auth")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc123","amount":35000,"currency":"INR","receipt":"rcpt_x","status":"created"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	order, err := c.CreateOrder(context.Background(), OrderParams{Amount: 35000, Currency: "INR", Receipt: "rcpt_x"})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "order_abc123" || order.Amount != 35000 {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestCreateOrderServerErrorMapsToGatewayUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.CreateOrder(context.Background(), OrderParams{Amount: 100, Currency: "INR", Receipt: "rcpt_y"})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeGatewayUnavailable {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
}

func TestCreateOrderBadRequestMapsToValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.CreateOrder(context.Background(), OrderParams{Amount: 0, Currency: "INR", Receipt: "rcpt_z"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrderUnreachableGateway(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	_, err := c.CreateOrder(context.Background(), OrderParams{Amount: 100, Currency: "INR", Receipt: "rcpt_q"})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeGatewayUnavailable {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	c := newTestClient(t, "http://unused")

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_abc|pay_def"))
	valid := hex.EncodeToString(mac.Sum(nil))

	if !c.VerifySignature("order_abc", "pay_def", valid) {
		t.Fatal("expected valid signature to verify")
	}
	if c.VerifySignature("order_abc", "pay_def", strings.Repeat("0", len(valid))) {
		t.Fatal("expected tampered signature to fail")
	}
	if c.VerifySignature("", "pay_def", valid) {
		t.Fatal("expected empty order id to fail")
	}
	if c.VerifySignature("order_abc", "pay_def", "") {
		t.Fatal("expected empty signature to fail")
	}
}

func TestNewReceipt(t *testing.T) {
	if got := NewReceipt(""); !strings.HasPrefix(got, "rcpt_") {
		t.Fatalf("generated receipt %q missing default prefix", got)
	}
	if got := NewReceipt("order"); !strings.HasPrefix(got, "order_") {
		t.Fatalf("generated receipt %q missing prefix", got)
	}
	if NewReceipt("x") == NewReceipt("x") {
		t.Fatal("receipts should be unique")
	}
}

func TestRedact(t *testing.T) {
	if out := redact("signature", "abc"); out != "[REDACTED]" {
		t.Fatalf("expected redacted value, got %v", out)
	}
	if v := redact("status", "ok"); v != "ok" {
		t.Fatalf("unexpected redaction for safe key")
	}
}
