package utils

import (
	"strconv"
)

// ValidateRoutingNumber checks a 9-digit ABA routing number against its
// 3-7-1 weighted checksum.
func ValidateRoutingNumber(number string) bool {
	if len(number) != 9 {
		return false
	}

	digits := make([]int, 0, len(number))
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
		digits = append(digits, int(r-'0'))
	}

	weights := [3]int{3, 7, 1}
	sum := 0
	for i, digit := range digits {
		sum += digit * weights[i%3]
	}

	return sum%10 == 0
}

func IsNumeric(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
