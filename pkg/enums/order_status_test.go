package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses() {
		got, err := ParseOrderStatus(string(status))
		if err != nil {
			t.Fatalf("parse %q: %v", status, err)
		}
		if got != status {
			t.Fatalf("expected %q got %q", status, got)
		}
	}

	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if OrderStatusSubmitted.IsTerminal() {
		t.Fatal("submitted must not be terminal")
	}
	if !OrderStatusCancelled.IsTerminal() {
		t.Fatal("cancelled must be terminal")
	}
	if OrderStatus("bogus").IsValid() {
		t.Fatal("bogus must be invalid")
	}
	if len(OrderStatuses()) != 10 {
		t.Fatalf("expected 10 statuses, got %d", len(OrderStatuses()))
	}
}
