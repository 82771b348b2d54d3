/*
format.go - Display formatting for minutes and minor-unit amounts

PURPOSE:
  Peripheral utilities for callers that render engine output. The raw
  integer minutes and minor units the engine produces are the contract;
  these helpers only shape them for display.
*/
package payroll

import "fmt"

// FormatMinutes renders a minute count as "H:MM" (e.g. 516 -> "8:36").
// Negative counts keep a single leading sign.
func FormatMinutes(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}

// FormatMoney renders a minor-unit amount as a major-unit decimal string
// (e.g. 43000 -> "430.00").
func FormatMoney(amount Money) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
