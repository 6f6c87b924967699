package models

import "fmt"

const sizeUnits = " KMGTP"

// HumanSize renders a byte count with a 1024 base and two decimals,
// e.g. "0 B", "512.00 B", "1.50 KB".
func HumanSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	v := float64(n)
	e := 0
	for v >= 1024 && e < len(sizeUnits)-1 {
		v /= 1024
		e++
	}
	if e == 0 {
		return fmt.Sprintf("%.2f B", v)
	}
	return fmt.Sprintf("%.2f %cB", v, sizeUnits[e])
}
