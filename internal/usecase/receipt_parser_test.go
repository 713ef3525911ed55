package usecase

import "testing"

func TestParseReceiptLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantText  string
		wantPrice float64
		hasPrice  bool
	}{
		{"dollar price", "Navy wool blazer $129.99", "Navy wool blazer", 129.99, true},
		{"quantity and comma decimal", "2 x Silk scarf 45,50 EUR", "Silk scarf", 45.5, true},
		{"sku and currency prefix", "Linen shirt #12345 USD 60", "Linen shirt", 60, true},
		{"dash separator", "Trench coat - 250", "Trench coat", 250, true},
		{"no price", "Cotton tee", "Cotton tee", 0, false},
		{"number inside text", "Levi's 501 jeans", "Levi's 501 jeans", 0, false},
		{"only a number", "12.99", "12.99", 0, false},
		{"blank line", "   ", "", 0, false},
		{"extra whitespace", "  black    leather   boots   £80 ", "black leather boots", 80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, price := ParseReceiptLine(tt.line)

			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if tt.hasPrice {
				if price == nil {
					t.Fatalf("price = nil, want %v", tt.wantPrice)
				}
				if *price != tt.wantPrice {
					t.Errorf("price = %v, want %v", *price, tt.wantPrice)
				}
			} else if price != nil {
				t.Errorf("price = %v, want nil", *price)
			}
		})
	}
}
