package catalog

import "github.com/shopspring/decimal"

// FallbackProducts is the fixed development catalog used when the database is
// unavailable. Ids and prices line up with the seed migration so checkout
// behaves the same in both modes.
func FallbackProducts() []Product {
	return []Product{
		{ID: 1, Name: "Wireless Earbuds", Description: strptr("Compact earbuds with noise isolation and long battery life."), Price: dec("39.99"), ImageURL: "https://picsum.photos/seed/earbuds/600/400"},
		{ID: 2, Name: "Smartphone Case", Description: strptr("Shock-absorbing case with raised edges for screen protection."), Price: dec("14.99"), ImageURL: "https://picsum.photos/seed/case/600/400"},
		{ID: 3, Name: "USB-C Fast Charger", Description: strptr("20W USB-C power adapter for rapid charging."), Price: dec("19.99"), ImageURL: "https://picsum.photos/seed/charger/600/400"},
		{ID: 4, Name: "Bluetooth Speaker", Description: strptr("Portable speaker with deep bass and 10h playtime."), Price: dec("49.99"), ImageURL: "https://picsum.photos/seed/speaker/600/400"},
		{ID: 5, Name: "Screen Protector (2-Pack)", Description: strptr("Tempered glass with easy alignment tray."), Price: dec("12.99"), ImageURL: "https://picsum.photos/seed/protector/600/400"},
		{ID: 6, Name: "MagSafe Power Bank", Description: strptr("Magnetic wireless power bank, 5000mAh."), Price: dec("34.99"), ImageURL: "https://picsum.photos/seed/powerbank/600/400"},
		{ID: 7, Name: "Car Phone Mount", Description: strptr("Stable air-vent mount with one-hand operation."), Price: dec("16.99"), ImageURL: "https://picsum.photos/seed/mount/600/400"},
		{ID: 8, Name: "Silicone Watch Band", Description: strptr("Sweat-resistant band compatible with popular smartwatches."), Price: dec("9.99"), ImageURL: "https://picsum.photos/seed/band/600/400"},
	}
}

func strptr(s string) *string {
	return &s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
