package sanitizer

import "strings"

// NormalizePhone strips spaces, dashes and parentheses and keeps a
// single leading plus, leaving E.164 validation to the validator.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var result strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			result.WriteRune(r)
		case r == '+' && i == 0:
			result.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator noise
		default:
			return phone
		}
	}

	return result.String()
}
