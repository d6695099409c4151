package config

import "fmt"

// Override policies understood by the archive manager
const (
	PolicyFirst = "first"
	PolicyLast  = "last"
)

var validPolicies = map[string]bool{
	PolicyFirst: true,
	PolicyLast:  true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

func validatePolicy(policy string) error {
	if !validPolicies[policy] {
		return fmt.Errorf("unsupported policy '%s': supported policies are first, last", policy)
	}
	return nil
}

func validateLogFormat(format string) error {
	if !validLogFormats[format] {
		return fmt.Errorf("unsupported log format '%s': supported formats are text, json", format)
	}
	return nil
}
