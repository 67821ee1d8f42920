//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "petopia-api"
	ConsumerName = "petopia-web"

	StateProductInStock = "product 1 has 10 units in stock"
	StateOrderDelivered = "order 1 has been delivered"
	StateNoSlotsBooked  = "no time slots are booked"
	StateSlotBooked     = "the 09:00 AM grooming slot is booked"
)

const (
	ProductID int64 = 1
	OrderID   int64 = 1

	SlotDate    = "2026-05-04"
	SlotService = "Grooming"
	SlotLabel   = "09:00 AM-09:30 AM"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCheckoutPayload is the cart the storefront submits at checkout.
func ExampleCheckoutPayload() map[string]any {
	return map[string]any{
		"userId":        7,
		"items":         []map[string]any{{"productId": ProductID, "quantity": 2}},
		"paymentMethod": "card",
		"deliveryDetails": map[string]any{
			"fullName":   "Pact Customer",
			"address":    "1 Contract Way",
			"city":       "Springfield",
			"postalCode": "12345",
			"phone":      "+1234567890",
		},
	}
}

// ExampleSlotPayload is the slot the booking widget reserves.
func ExampleSlotPayload() map[string]any {
	return map[string]any{
		"date":        SlotDate,
		"serviceType": SlotService,
		"slot":        SlotLabel,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
