package domain

import (
	"fmt"
	"strconv"

	"golang.org/x/text/currency"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice renders an amount in whole units with Indian digit grouping, e.g. ₹1,23,456.
// Zero renders as "Free". Unknown currency codes fall back to INR.
func FormatPrice(amount int64, code string) string {
	if amount == 0 {
		return "Free"
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.INR
	}
	symbol, ok := currencySymbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + symbol + groupIndian(strconv.FormatInt(amount, 10))
}

// groupIndian groups the last three digits, then every two: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	out := tail
	for len(head) > 2 {
		out = head[len(head)-2:] + "," + out
		head = head[:len(head)-2]
	}
	return head + "," + out
}

// FormatCompact abbreviates large counters: 1500 -> 1.5K, 2300000 -> 2.3M.
func FormatCompact(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}
