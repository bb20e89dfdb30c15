//go:build !integration

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/ports/adapter"
)

func testRequest() adapter.SubscribeRequest {
	coupon := "FOREVER20"
	return adapter.SubscribeRequest{
		Token:     "tok-abc",
		PlanCode:  "1399",
		FirstName: "Jane",
		LastName:  "Smith",
		Email:     "jane@example.com",
		Address: adapter.SubscribeAddress{
			Address1: "123 Bloom St",
			City:     "New York",
			State:    "NY",
			Zip:      "10001",
			Country:  "US",
		},
		CouponCode: &coupon,
		StartDate:  "asap",
	}
}

func TestCreateSubscriptionSuccess(t *testing.T) {
	t.Parallel()

	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/subscribe" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"subscription_id":"sub-9","account_code":"acct-9"}`))
	}))
	defer srv.Close()

	client := NewSubscribeClient(srv.URL, 5*time.Second)
	res, err := client.CreateSubscription(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.SubscriptionID != "sub-9" || res.AccountCode != "acct-9" {
		t.Errorf("unexpected result: %+v", res)
	}

	// Wire shape of the payload the backend contract names.
	if got["recurly_token"] != "tok-abc" || got["plan_code"] != "1399" {
		t.Errorf("payload missing token/plan: %v", got)
	}
	if got["coupon_code"] != "FOREVER20" {
		t.Errorf("coupon code not forwarded: %v", got["coupon_code"])
	}
	addr, _ := got["address"].(map[string]interface{})
	if addr["country"] != "US" {
		t.Errorf("address not forwarded: %v", got["address"])
	}
}

func TestCreateSubscriptionRejectionKeepsMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"Coupon has expired"}`))
	}))
	defer srv.Close()

	client := NewSubscribeClient(srv.URL, 5*time.Second)
	res, err := client.CreateSubscription(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("parsed rejection must not be a transport error: %v", err)
	}
	if res.Success {
		t.Fatal("expected rejection")
	}
	if res.Message != "Coupon has expired" {
		t.Errorf("backend message lost: %q", res.Message)
	}
}

func TestCreateSubscriptionForcesFailureOnErrorStatus(t *testing.T) {
	t.Parallel()

	// A misbehaving backend that says success with a 500 status.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewSubscribeClient(srv.URL, 5*time.Second)
	res, err := client.CreateSubscription(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Error("non-2xx status must never report success")
	}
}

func TestCreateSubscriptionUnparsableBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	}))
	defer srv.Close()

	client := NewSubscribeClient(srv.URL, 5*time.Second)
	_, err := client.CreateSubscription(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrBackendUnreachable) {
		t.Fatalf("expected ErrBackendUnreachable, got %v", err)
	}
}

func TestCreateSubscriptionTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewSubscribeClient(srv.URL, time.Second)
	_, err := client.CreateSubscription(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrBackendUnreachable) {
		t.Fatalf("expected ErrBackendUnreachable, got %v", err)
	}
}

func Test3DSecureTokenRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["three_d_secure_action_result_token_id"] == "3ds-result-1" {
			_, _ = w.Write([]byte(`{"success":true,"subscription_id":"sub-3ds"}`))
			return
		}
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"success":false,"three_d_secure_action_token_id":"3ds-challenge-1"}`))
	}))
	defer srv.Close()

	client := NewSubscribeClient(srv.URL, 5*time.Second)

	req := testRequest()
	res, err := client.CreateSubscription(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || res.ThreeDSecureActionTokenID != "3ds-challenge-1" {
		t.Fatalf("expected a 3-D Secure challenge, got %+v", res)
	}

	// Retry carrying the result token from the completed challenge.
	req.ThreeDSecureActionResultTokenID = "3ds-result-1"
	res, err = client.CreateSubscription(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.SubscriptionID != "sub-3ds" {
		t.Errorf("expected challenge retry to succeed, got %+v", res)
	}
}
