package utils

import "testing"

func TestParseFee(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"5000", 5000, false},
		{"₦7,000", 7000, false},
		{"₦7,000.50", 7000.50, false},
		{" NGN 12,500 ", 12500, false},
		{"$300", 300, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"₦", 0, true},
		{"", 0, true},
		{"-100", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFee(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFee(%q) = %v, want error", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFee(%q) error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFee(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFormatFee(t *testing.T) {
	tests := []struct {
		fee  float64
		want string
	}{
		{7000, "₦7,000.00"},
		{500, "₦500.00"},
		{1234567.5, "₦1,234,567.50"},
		{0, "₦0.00"},
	}

	for _, tt := range tests {
		if got := FormatFee("₦", tt.fee); got != tt.want {
			t.Errorf("FormatFee(₦, %v) = %q, want %q", tt.fee, got, tt.want)
		}
	}
}
