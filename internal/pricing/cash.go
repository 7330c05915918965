package pricing

// CashTendered is the cash handed over at the till, split by currency.
type CashTendered struct {
	USD float64
	KHR float64
}

// ReceivedUSD converts the tendered cash to a single USD amount at the
// given rate.
func (c CashTendered) ReceivedUSD(rate float64) float64 {
	return c.USD + c.KHR/rate
}

// Sufficient reports whether the tendered cash covers the amount due,
// within Epsilon tolerance.
func Sufficient(amountDue float64, tendered CashTendered, rate float64) bool {
	return tendered.ReceivedUSD(rate) >= amountDue-Epsilon
}

// Change is the change owed, expressed in both currencies. USD carries
// the sign; KHR is the same amount at the given rate. Negative values
// mean the customer still owes money.
type Change struct {
	USD float64
	KHR float64
}

// ChangeFor computes change owed on a cash payment.
func ChangeFor(amountDue float64, tendered CashTendered, rate float64) Change {
	usd := tendered.ReceivedUSD(rate) - amountDue
	return Change{USD: usd, KHR: usd * rate}
}
