// Package validation decides which cart lines break the merchant's per-variant
// quantity limits. Evaluate is pure: it performs no I/O and keeps no state.
package validation

import "fmt"

// Evaluate checks every product variant line of cart against cfg.
//
// A nil cfg means the merchant never configured limits, and the result carries
// no operations at all. Otherwise exactly one ValidationAdd operation is
// returned, even when no line exceeds its limit.
func Evaluate(cfg *Configuration, cart Cart) Result {
	if cfg == nil {
		return Result{Operations: []Operation{}}
	}

	errs := make([]ValidationError, 0)
	for _, line := range cart.Lines {
		switch m := line.Merchandise.(type) {
		case ProductVariant:
			limit := cfg.LimitFor(m.ID)
			if line.Quantity > limit {
				errs = append(errs, ValidationError{
					Message: LimitExceededMessage(limit, m.Product.Title),
					Target:  TargetCart,
				})
			}
		case OtherMerchandise:
		}
	}

	return Result{Operations: []Operation{ValidationAdd{Errors: errs}}}
}

func LimitExceededMessage(limit int, productTitle string) string {
	return fmt.Sprintf("Orders are limited to a maximum of %d of %s", limit, productTitle)
}
