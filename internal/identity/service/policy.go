package service

import "unicode"

// Password complexity messages, one per criterion so a rejection names
// exactly what is missing.
const (
	policyTooShort  = "Password must be at least 8 characters long."
	policyLowercase = "Password must contain at least one lowercase letter."
	policyUppercase = "Password must contain at least one uppercase letter."
	policyDigit     = "Password must contain at least one digit."
	policySymbol    = "Password must contain at least one symbol."
)

const minPasswordLength = 8

// ValidatePasswordPolicy checks a candidate password against the complexity
// policy and returns nil when it passes, or a *PolicyError listing every
// missing criterion.
func ValidatePasswordPolicy(password string) error {
	var violations []string

	if len([]rune(password)) < minPasswordLength {
		violations = append(violations, policyTooShort)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasLower {
		violations = append(violations, policyLowercase)
	}
	if !hasUpper {
		violations = append(violations, policyUppercase)
	}
	if !hasDigit {
		violations = append(violations, policyDigit)
	}
	if !hasSymbol {
		violations = append(violations, policySymbol)
	}

	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}
