package models

import "testing"

func TestServiceCatalog(t *testing.T) {
	if len(ServiceCatalog) != 25 {
		t.Fatalf("catalog has %d entries, want 25", len(ServiceCatalog))
	}
	for _, opt := range ServiceCatalog {
		if !IsValidService(opt.Code) {
			t.Errorf("catalog code %q not reported valid", opt.Code)
		}
		if opt.Label == "" {
			t.Errorf("catalog code %q has empty label", opt.Code)
		}
		if opt.DefaultFee <= 0 {
			t.Errorf("catalog code %q has non-positive default fee", opt.Code)
		}
	}
}

func TestServiceLabel(t *testing.T) {
	if got := ServiceLabel("facial"); got != "Facial Treatment" {
		t.Errorf("ServiceLabel(facial) = %q", got)
	}
	if got := ServiceLabel("manicure"); got != "Manicure" {
		t.Errorf("ServiceLabel(manicure) = %q", got)
	}
	// Unknown codes fall back to the code so nothing renders empty.
	if got := ServiceLabel("nope"); got != "nope" {
		t.Errorf("ServiceLabel(nope) = %q", got)
	}
}

func TestServiceDefaultFee(t *testing.T) {
	if got := ServiceDefaultFee("manicure", 1000); got != 5000 {
		t.Errorf("ServiceDefaultFee(manicure) = %v, want 5000", got)
	}
	if got := ServiceDefaultFee("unknown", 1000); got != 1000 {
		t.Errorf("ServiceDefaultFee(unknown) = %v, want fallback 1000", got)
	}
}

func TestIsValidService(t *testing.T) {
	if IsValidService("") {
		t.Error("empty code must be invalid")
	}
	if IsValidService("FACIAL") {
		t.Error("codes are case sensitive")
	}
}
