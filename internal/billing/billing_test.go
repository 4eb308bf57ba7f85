package billing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sajipos/api/internal/enum"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeFullBill(t *testing.T) {
	in := Input{
		Items: []Item{
			{Status: enum.ItemStatusFire, UnitPrice: dec("19.95"), Quantity: 2, DiscountAmount: dec("3.99")},
			{Status: enum.ItemStatusHold, UnitPrice: dec("4.50"), Quantity: 1, Modifiers: []ItemModifier{
				{Price: dec("0.75"), Quantity: 2},
			}},
			{Status: enum.ItemStatusTemp, UnitPrice: dec("100.00"), Quantity: 1},
			{Status: enum.ItemStatusVoid, UnitPrice: dec("50.00"), Quantity: 1},
		},
		Gratuity: Gratuity{Key: enum.GratuityKeyManual, Type: enum.GratuityTypePercentage, Value: dec("10")},
		Business: BusinessConfig{TaxRatePercent: dec("8.875"), FeePercent: dec("3")},
	}

	bill := Compute(in)

	// 19.95*2 + 4.50 + 0.75*2 = 45.90; TEMP and VOID lines excluded
	if got := bill.Subtotal.StringFixed(2); got != "45.90" {
		t.Errorf("Subtotal = %s, want 45.90", got)
	}
	if got := bill.TotalDiscount.StringFixed(2); got != "3.99" {
		t.Errorf("TotalDiscount = %s, want 3.99", got)
	}
	// (45.90-3.99) * 8.875% = 3.719... -> 3.72
	if got := bill.TaxAmount.StringFixed(2); got != "3.72" {
		t.Errorf("TaxAmount = %s, want 3.72", got)
	}
	// 10% of post-tax 45.63 = 4.563 -> 4.56
	if got := bill.GratuityAmount.StringFixed(2); got != "4.56" {
		t.Errorf("GratuityAmount = %s, want 4.56", got)
	}
	// 3% of pre-tax 41.91 = 1.2573 -> 1.26
	if got := bill.FeeAmount.StringFixed(2); got != "1.26" {
		t.Errorf("FeeAmount = %s, want 1.26", got)
	}
	// 45.63 + 4.56 + 1.26
	if got := bill.TotalBill.StringFixed(2); got != "51.45" {
		t.Errorf("TotalBill = %s, want 51.45", got)
	}
	if got := bill.RemainingAmount.StringFixed(2); got != "51.45" {
		t.Errorf("RemainingAmount = %s, want 51.45", got)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	in := Input{
		Items: []Item{
			{Status: enum.ItemStatusFire, UnitPrice: dec("12.00"), Quantity: 3, DiscountAmount: dec("1.20")},
		},
		Gratuity: Gratuity{Key: enum.GratuityKeyNotApplicable},
		Business: BusinessConfig{TaxRatePercent: dec("10"), FeePercent: dec("2.5")},
		Payments: []Payment{
			{Amount: dec("20.00"), Status: enum.PaymentStatusCompleted},
		},
	}

	first := Compute(in)
	second := Compute(in)
	if !first.TotalBill.Equal(second.TotalBill) || !first.RemainingAmount.Equal(second.RemainingAmount) {
		t.Errorf("repeated compute diverged: %+v vs %+v", first, second)
	}
}

func TestComputePaymentNetting(t *testing.T) {
	in := Input{
		Items: []Item{
			{Status: enum.ItemStatusFire, UnitPrice: dec("50.00"), Quantity: 1},
		},
		Gratuity: Gratuity{Key: enum.GratuityKeyNotApplicable},
		Payments: []Payment{
			{Amount: dec("30.00"), Status: enum.PaymentStatusCompleted},
			{Amount: dec("30.00"), Status: enum.PaymentStatusCompleted},
			{Amount: dec("10.00"), Status: enum.PaymentStatusRefunded},
			{Amount: dec("99.00"), Status: enum.PaymentStatusFailed},
			{Amount: dec("99.00"), Status: enum.PaymentStatusCancelled},
		},
	}

	bill := Compute(in)
	if got := bill.PaidAmount.StringFixed(2); got != "50.00" {
		t.Errorf("PaidAmount = %s, want 50.00", got)
	}
	if got := bill.RemainingAmount.StringFixed(2); got != "0.00" {
		t.Errorf("RemainingAmount = %s, want 0.00", got)
	}
}

func TestComputeOverpaymentClampsRemaining(t *testing.T) {
	in := Input{
		Items: []Item{
			{Status: enum.ItemStatusFire, UnitPrice: dec("10.00"), Quantity: 1},
		},
		Gratuity: Gratuity{Key: enum.GratuityKeyNotApplicable},
		Payments: []Payment{
			{Amount: dec("25.00"), Status: enum.PaymentStatusCompleted},
		},
	}

	bill := Compute(in)
	if got := bill.RemainingAmount.StringFixed(2); got != "0.00" {
		t.Errorf("RemainingAmount = %s, want 0.00 when overpaid", got)
	}
	if got := bill.PaidAmount.StringFixed(2); got != "25.00" {
		t.Errorf("PaidAmount = %s, want 25.00", got)
	}
}

func TestComputeGratuityModes(t *testing.T) {
	items := []Item{
		{Status: enum.ItemStatusFire, UnitPrice: dec("100.00"), Quantity: 1},
	}
	biz := BusinessConfig{
		TaxRatePercent: dec("10"),
		GratuityType:   enum.GratuityTypePercentage,
		GratuityValue:  dec("18"),
	}

	tests := []struct {
		name     string
		gratuity Gratuity
		want     string
	}{
		{"not applicable", Gratuity{Key: enum.GratuityKeyNotApplicable}, "0.00"},
		// auto picks the business preset: 18% of post-tax 110.00
		{"auto percentage", Gratuity{Key: enum.GratuityKeyAuto}, "19.80"},
		// manual percentage is also post-tax
		{"manual percentage", Gratuity{Key: enum.GratuityKeyManual, Type: enum.GratuityTypePercentage, Value: dec("5")}, "5.50"},
		{"manual fixed", Gratuity{Key: enum.GratuityKeyManual, Type: enum.GratuityTypeFixedMoney, Value: dec("7.25")}, "7.25"},
		{"unknown key", Gratuity{Key: "SOMETHING_ELSE"}, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := Compute(Input{Items: items, Gratuity: tt.gratuity, Business: biz})
			if got := bill.GratuityAmount.StringFixed(2); got != tt.want {
				t.Errorf("GratuityAmount = %s, want %s", got, tt.want)
			}
		})
	}
}
