package models

import (
	"testing"

	"api_ledger/internal/custom_err"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestWallet_Deposit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		w := NewWallet(uuid.New(), "aabbccdd11223344")
		require.NoError(t, w.Deposit(mustDecimal(t, "200.0000")))
		assert.True(t, w.Balance.Equal(mustDecimal(t, "200.0000")))
	})

	t.Run("Error - Non-Positive Amount", func(t *testing.T) {
		w := NewWallet(uuid.New(), "aabbccdd11223344")
		assert.ErrorIs(t, w.Deposit(decimal.Zero), custom_err.ErrInvalidAmount)
		assert.ErrorIs(t, w.Deposit(mustDecimal(t, "-1")), custom_err.ErrInvalidAmount)
		assert.True(t, w.Balance.IsZero())
	})

	t.Run("No Drift Across Repeated Operations", func(t *testing.T) {
		// 0.0001 десять тысяч раз — ровно 1.0000, без дрейфа округления
		w := NewWallet(uuid.New(), "aabbccdd11223344")
		step := mustDecimal(t, "0.0001")
		for i := 0; i < 10000; i++ {
			require.NoError(t, w.Deposit(step))
		}
		assert.True(t, w.Balance.Equal(mustDecimal(t, "1.0000")), "got %s", w.Balance)
	})
}

func TestWallet_Withdraw(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		w := NewWallet(uuid.New(), "aabbccdd11223344")
		require.NoError(t, w.Deposit(mustDecimal(t, "1000.0000")))
		require.NoError(t, w.Withdraw(mustDecimal(t, "200.0000")))
		assert.True(t, w.Balance.Equal(mustDecimal(t, "800.0000")))
	})

	t.Run("Error - Insufficient Funds Leaves Balance Unchanged", func(t *testing.T) {
		w := NewWallet(uuid.New(), "aabbccdd11223344")
		require.NoError(t, w.Deposit(mustDecimal(t, "800.0000")))

		err := w.Withdraw(mustDecimal(t, "5000.0000"))
		assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
		assert.True(t, w.Balance.Equal(mustDecimal(t, "800.0000")))
	})

	t.Run("Error - Cannot Go Below Zero", func(t *testing.T) {
		w := NewWallet(uuid.New(), "aabbccdd11223344")
		require.NoError(t, w.Deposit(mustDecimal(t, "800.0000")))
		require.NoError(t, w.Withdraw(mustDecimal(t, "800.0000")))
		assert.True(t, w.Balance.IsZero())

		err := w.Withdraw(mustDecimal(t, "0.0001"))
		assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
		assert.True(t, w.Balance.IsZero())
	})
}

func TestValidateAmount(t *testing.T) {
	testCases := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "positive integer", amount: "100", wantErr: false},
		{name: "four decimal places", amount: "0.0001", wantErr: false},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-5", wantErr: true},
		{name: "five decimal places", amount: "1.00001", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAmount(mustDecimal(t, tc.amount))
			if tc.wantErr {
				assert.ErrorIs(t, err, custom_err.ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateAddress(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		addr, err := GenerateAddress()
		require.NoError(t, err)
		assert.Len(t, addr, AddressLength)
		assert.False(t, seen[addr], "addresses must not repeat")
		seen[addr] = true
	}
}
