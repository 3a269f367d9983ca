package function

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/settings"
	"github.com/yuzvak/product-limits/internal/domain/validation"
)

// Invocation is a decoded function input. A nil Configuration means the input
// carried no limits metafield.
type Invocation struct {
	Cart          validation.Cart
	Configuration *validation.Configuration
}

func DecodeInput(r io.Reader) (*Invocation, error) {
	var input Input
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&input); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidInput, err)
	}

	return input.ToInvocation()
}

func (in Input) ToInvocation() (*Invocation, error) {
	cart := validation.Cart{Lines: make([]validation.CartLine, 0, len(in.Cart.Lines))}
	for i, line := range in.Cart.Lines {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("%w: line %d has negative quantity %d", domainErrors.ErrInvalidInput, i, line.Quantity)
		}

		merchandise, err := line.Merchandise.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domainErrors.ErrInvalidInput, i, err)
		}

		cart.Lines = append(cart.Lines, validation.CartLine{
			Quantity:    line.Quantity,
			Merchandise: merchandise,
		})
	}

	cfg, err := in.configuration()
	if err != nil {
		return nil, err
	}

	return &Invocation{Cart: cart, Configuration: cfg}, nil
}

func (m MerchandiseInput) toDomain() (validation.Merchandise, error) {
	if m.TypeName != TypeNameProductVariant {
		return validation.OtherMerchandise{TypeName: m.TypeName}, nil
	}

	if m.ID == "" {
		return nil, fmt.Errorf("product variant without id")
	}

	variant := validation.ProductVariant{ID: m.ID}
	if m.Product != nil {
		variant.Product.Title = m.Product.Title
	}
	return variant, nil
}

func (in Input) configuration() (*validation.Configuration, error) {
	if in.Validation == nil || in.Validation.Metafield == nil {
		return nil, nil
	}

	raw := in.Validation.Metafield.rawValue()
	if raw == nil {
		return nil, nil
	}

	limits, err := settings.DecodeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidInput, err)
	}

	return validation.NewConfiguration(limits), nil
}

func (m *MetafieldInput) rawValue() []byte {
	trimmed := bytes.TrimSpace(m.JSONValue)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		return trimmed
	}

	if m.Value != nil && *m.Value != "" {
		return []byte(*m.Value)
	}

	return nil
}

func EncodeResult(result validation.Result) Output {
	out := Output{Operations: make([]OperationOutput, 0, len(result.Operations))}
	for _, op := range result.Operations {
		switch o := op.(type) {
		case validation.ValidationAdd:
			errs := make([]ValidationErrorOutput, 0, len(o.Errors))
			for _, e := range o.Errors {
				errs = append(errs, ValidationErrorOutput{Message: e.Message, Target: e.Target})
			}
			out.Operations = append(out.Operations, OperationOutput{
				ValidationAdd: &ValidationAddOutput{Errors: errs},
			})
		}
	}
	return out
}

func WriteOutput(w io.Writer, result validation.Result, indent bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(EncodeResult(result))
}
