package testcase

import "regexp"

// StringAssumptions bounds generated string test data.
type StringAssumptions struct {
	MaxLength      int
	MinLength      int
	InvalidFormats []string
}

// NumberAssumptions bounds generated numeric test data.
type NumberAssumptions struct {
	Min     int
	Max     int
	Invalid []int
}

// EmailAssumptions describes valid and invalid email shapes.
type EmailAssumptions struct {
	Format         *regexp.Regexp
	InvalidFormats []string
}

// PasswordAssumptions describes password validity rules.
type PasswordAssumptions struct {
	MinLength    int
	Requirements []string
}

// QAAssumptions is the static table of default validity bounds used when
// deriving boundary, negative and edge test data.
type QAAssumptions struct {
	String   StringAssumptions
	Number   NumberAssumptions
	Email    EmailAssumptions
	Password PasswordAssumptions
}

// Assumptions is constructed once at startup and never mutated.
var Assumptions = QAAssumptions{
	String: StringAssumptions{
		MaxLength:      255,
		MinLength:      1,
		InvalidFormats: []string{"", "   ", "\t"},
	},
	Number: NumberAssumptions{
		Min:     0,
		Max:     999999,
		Invalid: []int{-1, 999999999},
	},
	Email: EmailAssumptions{
		Format:         regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
		InvalidFormats: []string{"plainaddress", "@missing-local.org", "missing-domain@"},
	},
	Password: PasswordAssumptions{
		MinLength:    8,
		Requirements: []string{"uppercase", "lowercase", "number", "special character"},
	},
}
