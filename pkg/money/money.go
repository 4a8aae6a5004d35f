// Package money formats prices in Vietnamese dong.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySign = "đ"

var printer = message.NewPrinter(language.Vietnamese)

// FormatVND renders amount with vi-VN digit grouping and the dong sign,
// 1250000 becomes "1.250.000đ".
func FormatVND(amount int64) string {
	return printer.Sprintf("%d", amount) + currencySign
}
