package settings

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/validation"
)

const (
	DefaultNamespace = "$app:product-limits"
	DefaultKey       = "product-limits-values"
)

type Metafield struct {
	Namespace string
	Key       string
	Limits    map[string]int
	UpdatedAt time.Time
}

type metafieldValue struct {
	Limits map[string]int `json:"limits"`
}

func NewMetafield(namespace, key string) *Metafield {
	return &Metafield{
		Namespace: namespace,
		Key:       key,
		Limits:    make(map[string]int),
	}
}

func (m *Metafield) SetLimit(variantID string, limit int) error {
	if err := checkLimit(variantID, limit); err != nil {
		return err
	}

	m.Limits[variantID] = limit
	return nil
}

// ClearLimit removes the variant's limit entirely, which is not the same as a limit of zero.
func (m *Metafield) ClearLimit(variantID string) bool {
	if _, ok := m.Limits[variantID]; !ok {
		return false
	}

	delete(m.Limits, variantID)
	return true
}

func (m *Metafield) ReplaceLimits(limits map[string]int) error {
	for variantID, limit := range limits {
		if err := checkLimit(variantID, limit); err != nil {
			return err
		}
	}

	replaced := make(map[string]int, len(limits))
	for variantID, limit := range limits {
		replaced[variantID] = limit
	}
	m.Limits = replaced
	return nil
}

func (m *Metafield) Configuration() *validation.Configuration {
	return validation.NewConfiguration(m.Limits)
}

func (m *Metafield) Clone() *Metafield {
	limits := make(map[string]int, len(m.Limits))
	for variantID, limit := range m.Limits {
		limits[variantID] = limit
	}

	return &Metafield{
		Namespace: m.Namespace,
		Key:       m.Key,
		Limits:    limits,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m *Metafield) EncodeValue() ([]byte, error) {
	limits := m.Limits
	if limits == nil {
		limits = map[string]int{}
	}
	return json.Marshal(metafieldValue{Limits: limits})
}

func DecodeValue(data []byte) (map[string]int, error) {
	var value metafieldValue
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMetafieldValue, err)
	}

	if value.Limits == nil {
		value.Limits = map[string]int{}
	}
	return value.Limits, nil
}

func checkLimit(variantID string, limit int) error {
	if strings.TrimSpace(variantID) == "" {
		return domainErrors.ErrInvalidVariantID
	}

	if limit < 0 {
		return fmt.Errorf("%w: %s has limit %d", domainErrors.ErrInvalidLimit, variantID, limit)
	}

	return nil
}
