// Package billing computes the bill for an order from its current items,
// gratuity configuration, and payment ledger. The computation is pure and is
// rerun from scratch on every read; nothing here is cached between calls.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/sajipos/api/internal/enum"
	"github.com/sajipos/api/internal/money"
)

// ItemModifier is a modifier line attached to an order item.
type ItemModifier struct {
	Price    decimal.Decimal
	Quantity int32
}

// Item is one order item line as the engine sees it. Items with status TEMP
// or VOID contribute nothing to the bill.
type Item struct {
	Status         int16
	UnitPrice      decimal.Decimal
	Quantity       int32
	DiscountAmount decimal.Decimal
	Modifiers      []ItemModifier
}

// Payment is one ledger row. Only COMPLETED and REFUNDED rows affect the
// paid amount; FAILED and CANCELLED rows are ignored.
type Payment struct {
	Amount decimal.Decimal
	Status string
}

// BusinessConfig carries the business-level rates used by the engine.
type BusinessConfig struct {
	TaxRatePercent decimal.Decimal
	FeePercent     decimal.Decimal
	GratuityType   string
	GratuityValue  decimal.Decimal
}

// Gratuity is the order's gratuity selection. Key decides whether the
// order's own type/value or the business preset applies.
type Gratuity struct {
	Key   string
	Type  string
	Value decimal.Decimal
}

// Input is everything Compute needs. Callers load it inside whatever
// transaction scope they need; the engine itself never touches storage.
type Input struct {
	Items    []Item
	Gratuity Gratuity
	Business BusinessConfig
	Payments []Payment
}

// Bill is the computed result. TaxAmount and FeeAmount are also written back
// onto the order by callers as the latest snapshot for reporting.
type Bill struct {
	Subtotal        decimal.Decimal
	TotalDiscount   decimal.Decimal
	TaxAmount       decimal.Decimal
	GratuityAmount  decimal.Decimal
	FeeAmount       decimal.Decimal
	TotalBill       decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
}

// Compute evaluates the bill in a fixed stage order. Each stage compounds on
// the one before it: discount comes off the subtotal, tax applies after the
// discount, percentage gratuity applies after tax, and the fee percentage
// applies to the pre-tax discounted amount.
func Compute(in Input) Bill {
	var subtotal, totalDiscount decimal.Decimal
	for _, item := range in.Items {
		if item.Status == enum.ItemStatusTemp || item.Status == enum.ItemStatusVoid {
			continue
		}
		line := item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity))
		for _, mod := range item.Modifiers {
			line = line.Add(mod.Price.Mul(decimal.NewFromInt32(mod.Quantity)))
		}
		subtotal = subtotal.Add(line)
		totalDiscount = totalDiscount.Add(item.DiscountAmount)
	}
	subtotal = money.Round2(subtotal)
	totalDiscount = money.Round2(totalDiscount)

	amountAfterDiscount := subtotal.Sub(totalDiscount)
	taxAmount := money.Round2(money.Percent(amountAfterDiscount, in.Business.TaxRatePercent))
	amountAfterTax := amountAfterDiscount.Add(taxAmount)

	gratuityAmount := computeGratuity(in.Gratuity, in.Business, amountAfterTax)
	feeAmount := money.Round2(money.Percent(amountAfterDiscount, in.Business.FeePercent))

	totalBill := amountAfterTax.Add(gratuityAmount).Add(feeAmount)

	var paidAmount decimal.Decimal
	for _, p := range in.Payments {
		switch p.Status {
		case enum.PaymentStatusCompleted:
			paidAmount = paidAmount.Add(p.Amount)
		case enum.PaymentStatusRefunded:
			paidAmount = paidAmount.Sub(p.Amount)
		}
	}
	paidAmount = money.Round2(paidAmount)

	remaining := totalBill.Sub(paidAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Bill{
		Subtotal:        subtotal,
		TotalDiscount:   totalDiscount,
		TaxAmount:       taxAmount,
		GratuityAmount:  gratuityAmount,
		FeeAmount:       feeAmount,
		TotalBill:       money.Round2(totalBill),
		PaidAmount:      paidAmount,
		RemainingAmount: money.Round2(remaining),
	}
}

// computeGratuity resolves which gratuity applies and evaluates it against
// the post-tax amount. Percentage gratuity is intentionally tax inclusive.
func computeGratuity(g Gratuity, biz BusinessConfig, amountAfterTax decimal.Decimal) decimal.Decimal {
	gratuityType := g.Type
	gratuityValue := g.Value

	switch g.Key {
	case enum.GratuityKeyNotApplicable:
		return decimal.Zero
	case enum.GratuityKeyAuto:
		gratuityType = biz.GratuityType
		gratuityValue = biz.GratuityValue
	case enum.GratuityKeyManual:
		// use the order's own type and value
	default:
		return decimal.Zero
	}

	switch gratuityType {
	case enum.GratuityTypePercentage:
		return money.Round2(money.Percent(amountAfterTax, gratuityValue))
	case enum.GratuityTypeFixedMoney:
		return money.Round2(gratuityValue)
	default:
		return decimal.Zero
	}
}
