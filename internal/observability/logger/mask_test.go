package logger

import "testing"

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskCookie(t *testing.T) {
	got := MaskCookie("session=abcdef1234; other=xyz")
	want := "session=****1234; other=****xyz"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskJSON(t *testing.T) {
	input := map[string]any{
		"password": "hunter2",
		"token":    "abc12345",
		"nested": map[string]any{
			"client_secret": "pi_123_secret_456789",
		},
	}
	masked := MaskJSON(input)
	if masked["password"] != "****ter2" {
		t.Fatalf("expected masked password, got %v", masked["password"])
	}
	if masked["token"] != "****2345" {
		t.Fatalf("expected masked token, got %v", masked["token"])
	}
	nested, ok := masked["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["client_secret"] != "****6789" {
		t.Fatalf("expected masked client_secret, got %v", nested["client_secret"])
	}
}

func TestMaskHeadersStripeSignature(t *testing.T) {
	headers := map[string][]string{
		"Stripe-Signature": {"t=12345,v1=deadbeefcafe"},
	}
	masked := MaskHeaders(headers)
	if masked["Stripe-Signature"] != "****cafe" {
		t.Fatalf("expected masked signature, got %q", masked["Stripe-Signature"])
	}
}
