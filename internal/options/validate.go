// Package options provides shared helpers for functional option validation.
package options

import "fmt"

// RequireOneSource ensures exactly one input source flag is set. The
// messages name the valid choices for the zero and many cases.
func RequireOneSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch count {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%s", noSourceMsg)
	default:
		return fmt.Errorf("%s", multiSourceMsg)
	}
}
