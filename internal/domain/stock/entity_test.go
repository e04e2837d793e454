package stock

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovementValidation(t *testing.T) {
	_, err := NewMovement("tenant-1", "prod-1", Kind("transferencia"), decimal.NewFromInt(1), RefInventory, "", "user-1", "")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = NewMovement("tenant-1", "prod-1", KindEntrada, decimal.Zero, RefInventory, "", "user-1", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewMovement("tenant-1", "prod-1", KindSaida, decimal.NewFromInt(-2), RefSale, "sale-1", "user-1", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNewMovementAjusteAcceptsZero(t *testing.T) {
	// Zerar o estoque é um acerto válido de inventário
	m, err := NewMovement("tenant-1", "prod-1", KindAjuste, decimal.Zero, RefInventory, "", "user-1", "contagem")
	require.NoError(t, err)
	assert.Equal(t, KindAjuste, m.Kind)

	_, err = NewMovement("tenant-1", "prod-1", KindAjuste, decimal.NewFromInt(-1), RefInventory, "", "user-1", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{
		ProductID:   "prod-1",
		ProductName: "Arroz 5kg",
		Available:   decimal.NewFromInt(3),
		Requested:   decimal.NewFromInt(5),
	}

	assert.Contains(t, err.Error(), "Arroz 5kg")
	assert.Contains(t, err.Error(), "3")

	assert.True(t, IsInsufficientStock(err))
	assert.True(t, IsInsufficientStock(fmt.Errorf("commit falhou: %w", err)))
	assert.False(t, IsInsufficientStock(errors.New("outro erro")))
	assert.False(t, IsInsufficientStock(nil))
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindEntrada, KindSaida, KindAjuste, KindEstorno} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("perda").Valid())
}
