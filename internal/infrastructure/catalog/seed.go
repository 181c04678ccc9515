package catalog

import "github.com/contractoros/backend/internal/domain"

// Seed returns the built-in demo catalog used when no catalog file is
// configured. Prices are representative central-Texas framing numbers.
func Seed() []domain.MaterialSKU {
	return []domain.MaterialSKU{
		{
			ID:   "2x4_stud_92",
			Name: `2x4 Stud 92-5/8"`,
			Unit: "each",
			Vendors: []domain.VendorOffer{
				{Store: "McCoy's", ZipPrefix: "784", Price: 3.69},
				{Store: "Home Depot", ZipPrefix: "784", Price: 3.79},
				{Store: "Lowe's", ZipPrefix: "784", Price: 3.75},
				{Store: "Generic", ZipPrefix: "*", Price: 4.10},
			},
		},
		{
			ID:   "2x4_plate_lf",
			Name: "2x4 Plate (linear ft)",
			Unit: "lf",
			Vendors: []domain.VendorOffer{
				{Store: "McCoy's", ZipPrefix: "784", Price: 0.85},
				{Store: "Home Depot", ZipPrefix: "784", Price: 0.92},
				{Store: "Lowe's", ZipPrefix: "784", Price: 0.90},
				{Store: "Generic", ZipPrefix: "*", Price: 1.05},
			},
		},
		{
			ID:   "2x1012_joist",
			Name: "2x10x12 Joist",
			Unit: "each",
			Vendors: []domain.VendorOffer{
				{Store: "McCoy's", ZipPrefix: "784", Price: 19.80},
				{Store: "Home Depot", ZipPrefix: "784", Price: 20.50},
				{Store: "Lowe's", ZipPrefix: "784", Price: 20.10},
				{Store: "Generic", ZipPrefix: "*", Price: 22.00},
			},
		},
		{
			ID:   "osb_716_4x8",
			Name: `OSB Sheathing 7/16" 4x8`,
			Unit: "sheet",
			Vendors: []domain.VendorOffer{
				{Store: "McCoy's", ZipPrefix: "784", Price: 12.95},
				{Store: "Home Depot", ZipPrefix: "784", Price: 13.20},
				{Store: "Lowe's", ZipPrefix: "784", Price: 13.10},
				{Store: "Generic", ZipPrefix: "*", Price: 14.00},
			},
		},
		{
			ID:   "hurricane_tie",
			Name: "Hurricane Tie",
			Unit: "each",
			Vendors: []domain.VendorOffer{
				{Store: "McCoy's", ZipPrefix: "784", Price: 0.89},
				{Store: "Home Depot", ZipPrefix: "784", Price: 0.98},
				{Store: "Lowe's", ZipPrefix: "784", Price: 0.95},
				{Store: "Generic", ZipPrefix: "*", Price: 1.10},
			},
		},
		{
			ID:   "nails_lb",
			Name: "Nails (per lb)",
			Unit: "lb",
			Vendors: []domain.VendorOffer{
				{Store: "McCoy's", ZipPrefix: "784", Price: 2.10},
				{Store: "Home Depot", ZipPrefix: "784", Price: 2.30},
				{Store: "Lowe's", ZipPrefix: "784", Price: 2.25},
				{Store: "Generic", ZipPrefix: "*", Price: 2.60},
			},
		},
		{
			ID:   "screws_lb",
			Name: "Exterior Screws (per lb)",
			Unit: "lb",
			Vendors: []domain.VendorOffer{
				{Store: "McCoy's", ZipPrefix: "784", Price: 4.90},
				{Store: "Home Depot", ZipPrefix: "784", Price: 5.30},
				{Store: "Lowe's", ZipPrefix: "784", Price: 5.10},
				{Store: "Generic", ZipPrefix: "*", Price: 5.70},
			},
		},
	}
}
