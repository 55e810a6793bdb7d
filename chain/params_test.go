package chain

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValid(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	assert.NoError(t, p.Validate())
	assert.Equal(t, uint64(DefaultReferenceGasPrice), p.ReferenceGasPrice)
	assert.Equal(t, uint64(DefaultMinComputationUnits*DefaultReferenceGasPrice), p.MinGasBudget(p.ReferenceGasPrice))
}

func TestParamsValidateCollectsErrors(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.ReferenceGasPrice = 0
	p.MaxGasBudget = 0
	p.StorageRebateRate = 20_000

	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)

	merr, ok := err.(*multierror.Error) //nolint:errorlint
	require.True(t, ok)
	assert.Len(t, merr.Errors, 3)
}

func TestParamsCopy(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	c := p.Copy()
	c.Epoch = 7

	assert.Equal(t, uint64(0), p.Epoch)
}
