package utils

import "fmt"

// FormatCents renders a cent amount as a dollar string, e.g. 123450 -> "$1,234.50".
func FormatCents(cents int32) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	dollars := cents / 100
	remainder := cents % 100

	grouped := groupThousands(dollars)
	if negative {
		return fmt.Sprintf("-$%s.%02d", grouped, remainder)
	}
	return fmt.Sprintf("$%s.%02d", grouped, remainder)
}

func groupThousands(n int32) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
