package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePasswordPolicy(t *testing.T) {
	t.Parallel()

	t.Run("compliant password passes", func(t *testing.T) {
		require.NoError(t, ValidatePasswordPolicy("Str0ng-pass!"))
	})

	t.Run("all-lowercase word names every missing criterion", func(t *testing.T) {
		err := ValidatePasswordPolicy("password")

		var policyErr *PolicyError
		require.ErrorAs(t, err, &policyErr)
		require.Equal(t, []string{policyUppercase, policyDigit, policySymbol}, policyErr.Violations)
	})

	t.Run("short password flagged for length", func(t *testing.T) {
		err := ValidatePasswordPolicy("Ab1!")

		var policyErr *PolicyError
		require.ErrorAs(t, err, &policyErr)
		require.Contains(t, policyErr.Violations, policyTooShort)
		require.Len(t, policyErr.Violations, 1)
	})

	t.Run("missing lowercase flagged", func(t *testing.T) {
		err := ValidatePasswordPolicy("PASSWORD1!")

		var policyErr *PolicyError
		require.ErrorAs(t, err, &policyErr)
		require.Equal(t, []string{policyLowercase}, policyErr.Violations)
	})

	t.Run("empty password fails everything", func(t *testing.T) {
		err := ValidatePasswordPolicy("")

		var policyErr *PolicyError
		require.ErrorAs(t, err, &policyErr)
		require.Len(t, policyErr.Violations, 5)
	})
}
