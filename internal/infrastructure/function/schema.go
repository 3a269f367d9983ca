// Package function translates between the checkout host's JSON documents and
// the validation domain types.
package function

import (
	"encoding/json"
)

const TypeNameProductVariant = "ProductVariant"

type Input struct {
	Cart       CartInput        `json:"cart"`
	Validation *ValidationInput `json:"validation,omitempty"`
}

type CartInput struct {
	Lines []CartLineInput `json:"lines"`
}

type CartLineInput struct {
	Quantity    int              `json:"quantity"`
	Merchandise MerchandiseInput `json:"merchandise"`
}

type MerchandiseInput struct {
	TypeName string        `json:"__typename"`
	ID       string        `json:"id,omitempty"`
	Product  *ProductInput `json:"product,omitempty"`
}

type ProductInput struct {
	Title string `json:"title"`
}

type ValidationInput struct {
	Metafield *MetafieldInput `json:"metafield"`
}

// MetafieldInput carries the limits either pre-parsed in JSONValue or as the raw
// string the settings page stored in Value. JSONValue wins when both are set.
type MetafieldInput struct {
	JSONValue json.RawMessage `json:"jsonValue,omitempty"`
	Value     *string         `json:"value,omitempty"`
}

type Output struct {
	Operations []OperationOutput `json:"operations"`
}

type OperationOutput struct {
	ValidationAdd *ValidationAddOutput `json:"validationAdd,omitempty"`
}

type ValidationAddOutput struct {
	Errors []ValidationErrorOutput `json:"errors"`
}

type ValidationErrorOutput struct {
	Message string `json:"message"`
	Target  string `json:"target"`
}
