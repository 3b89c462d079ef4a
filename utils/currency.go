package utils

import (
	"fmt"
	"strings"
)

// FormatPrice memformat harga ke format Eropa dengan koma desimal.
// Contoh: 12.5 -> "€ 12,50"
func FormatPrice(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)
	return "€ " + strings.Replace(formatted, ".", ",", 1)
}

// FormatElapsedClock memformat durasi dalam detik ke "MM:SS".
func FormatElapsedClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
