package models

// ServiceOption describes one entry of the fixed service catalog: the code
// stored on bookings, the label shown to humans, and the default fee charged
// when the customer does not supply one.
type ServiceOption struct {
	Code       string  `json:"code"`
	Label      string  `json:"label"`
	DefaultFee float64 `json:"default_fee"`
}

// ServiceCatalog is the full set of offered services. Codes are stable;
// labels are resolved here, at the model boundary, so nothing downstream
// ever renders a raw code.
var ServiceCatalog = []ServiceOption{
	// Tattoos
	{"tattoo", "Semi Permanent Tattoos", 15000},

	// Gel nails
	{"GNSL_nails", "Gel nails (short length)", 5000},
	{"GNML_nails", "Gel nails (medium length)", 6000},
	{"GNLL_nails", "Gel nails (long length)", 7000},

	// Acrylic nails, short
	{"ANSLP_nails", "Acrylic nails short length plain", 6000},
	{"ANSLFT_nails", "Acrylic nails short length french tips", 6500},
	{"ANSLED_nails", "Acrylic nails short length extra designs", 7000},

	// Acrylic nails, medium
	{"ANMLP_nails", "Acrylic nails medium length plain", 7000},
	{"ANMLFT_nails", "Acrylic nails medium length french tips", 7500},
	{"ANMLED_nails", "Acrylic nails medium length extra designs", 8000},

	// Acrylic nails, long
	{"ANLLP_nails", "Acrylic nails long length plain", 8000},
	{"ANLLFT_nails", "Acrylic nails long length french tips", 8500},
	{"ANLLED_nails", "Acrylic nails long length extra designs", 9000},

	// Acrylic nails, extra long
	{"ANELLP_nails", "Acrylic nails extra long length plain", 9000},
	{"ANELLFT_nails", "Acrylic nails extra long length french tips", 9500},
	{"ANELLED_nails", "Acrylic nails extra long length extra designs", 10000},

	// Lashes
	{"C_lashes", "Classic Lashes", 8000},
	{"H_lashes", "Hybrid Lashes", 10000},
	{"V_lashes", "Volume Lashes", 12000},
	{"MV_lashes", "Mega Volume Lashes", 15000},

	// Pedicures
	{"N_pedicure", "Normal Pedicure", 5000},
	{"F_pedicure", "French Pedicure", 6000},
	{"P_pedicure", "Paraffin Pedicure", 7000},

	// Others
	{"hair", "Hair Styling", 10000},
	{"manicure", "Manicure", 5000},
	{"facial", "Facial Treatment", 7000},
}

var serviceIndex = func() map[string]ServiceOption {
	idx := make(map[string]ServiceOption, len(ServiceCatalog))
	for _, opt := range ServiceCatalog {
		idx[opt.Code] = opt
	}
	return idx
}()

// IsValidService reports whether code belongs to the catalog.
func IsValidService(code string) bool {
	_, ok := serviceIndex[code]
	return ok
}

// ServiceLabel resolves the human label for a service code. Unknown codes
// fall back to the code itself so emails never render an empty string.
func ServiceLabel(code string) string {
	if opt, ok := serviceIndex[code]; ok {
		return opt.Label
	}
	return code
}

// ServiceDefaultFee returns the catalog fee for code, or fallback when the
// code carries no specific fee.
func ServiceDefaultFee(code string, fallback float64) float64 {
	if opt, ok := serviceIndex[code]; ok && opt.DefaultFee > 0 {
		return opt.DefaultFee
	}
	return fallback
}
