package function

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/validation"
)

func TestGoldenOutputs(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, name := range []string{"exceeds_limit", "mixed_cart", "no_configuration", "within_limits"} {
		t.Run(name, func(t *testing.T) {
			file, err := os.Open(filepath.Join("testdata", "input", name+".json"))
			require.NoError(t, err)
			defer file.Close()

			inv, err := DecodeInput(file)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, WriteOutput(&buf, validation.Evaluate(inv.Configuration, inv.Cart), true))

			g.Assert(t, name, buf.Bytes())
		})
	}
}

func TestDecodeInputMerchandiseKinds(t *testing.T) {
	inv, err := DecodeInput(strings.NewReader(`{"cart":{"lines":[
		{"quantity":1,"merchandise":{"__typename":"ProductVariant","id":"v1","product":{"title":"Widget"}}},
		{"quantity":2,"merchandise":{"__typename":"CustomProduct"}},
		{"quantity":3,"merchandise":{}}
	]}}`))
	require.NoError(t, err)

	require.Len(t, inv.Cart.Lines, 3)
	assert.Equal(t, validation.ProductVariant{ID: "v1", Product: validation.Product{Title: "Widget"}}, inv.Cart.Lines[0].Merchandise)
	assert.Equal(t, validation.OtherMerchandise{TypeName: "CustomProduct"}, inv.Cart.Lines[1].Merchandise)
	assert.Equal(t, validation.OtherMerchandise{}, inv.Cart.Lines[2].Merchandise)
	assert.Equal(t, 3, inv.Cart.Lines[2].Quantity)
	assert.Nil(t, inv.Configuration)
}

func TestDecodeInputConfigurationSources(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *validation.Configuration
	}{
		{
			name:     "missing validation",
			input:    `{"cart":{"lines":[]}}`,
			expected: nil,
		},
		{
			name:     "null metafield",
			input:    `{"cart":{"lines":[]},"validation":{"metafield":null}}`,
			expected: nil,
		},
		{
			name:     "metafield without value",
			input:    `{"cart":{"lines":[]},"validation":{"metafield":{"jsonValue":null}}}`,
			expected: nil,
		},
		{
			name:     "json value",
			input:    `{"cart":{"lines":[]},"validation":{"metafield":{"jsonValue":{"limits":{"v":3}}}}}`,
			expected: validation.NewConfiguration(map[string]int{"v": 3}),
		},
		{
			name:     "string value",
			input:    `{"cart":{"lines":[]},"validation":{"metafield":{"value":"{\"limits\":{\"v\":4}}"}}}`,
			expected: validation.NewConfiguration(map[string]int{"v": 4}),
		},
		{
			name:     "json value wins over string value",
			input:    `{"cart":{"lines":[]},"validation":{"metafield":{"jsonValue":{"limits":{"v":1}},"value":"{\"limits\":{\"v\":9}}"}}}`,
			expected: validation.NewConfiguration(map[string]int{"v": 1}),
		},
		{
			name:     "empty limits",
			input:    `{"cart":{"lines":[]},"validation":{"metafield":{"jsonValue":{}}}}`,
			expected: validation.NewConfiguration(nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := DecodeInput(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, inv.Configuration)
		})
	}
}

func TestDecodeInputRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		`not json`,
		`{"cart":{"lines":[{"quantity":-1,"merchandise":{"__typename":"CustomProduct"}}]}}`,
		`{"cart":{"lines":[{"quantity":1,"merchandise":{"__typename":"ProductVariant"}}]}}`,
		`{"cart":{"lines":[]},"validation":{"metafield":{"jsonValue":{"limits":{"v":"three"}}}}}`,
		`{"cart":{"lines":[]},"validation":{"metafield":{"value":"{broken"}}}`,
	}

	for _, input := range inputs {
		_, err := DecodeInput(strings.NewReader(input))
		assert.ErrorIs(t, err, domainErrors.ErrInvalidInput, input)
	}
}

func TestEncodeResultNeverEmitsNullLists(t *testing.T) {
	out := EncodeResult(validation.Result{})
	require.NotNil(t, out.Operations)

	out = EncodeResult(validation.Result{Operations: []validation.Operation{validation.ValidationAdd{}}})
	require.Len(t, out.Operations, 1)
	require.NotNil(t, out.Operations[0].ValidationAdd)
	assert.NotNil(t, out.Operations[0].ValidationAdd.Errors)

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, validation.Result{}, false))
	assert.Equal(t, "{\"operations\":[]}\n", buf.String())
}
