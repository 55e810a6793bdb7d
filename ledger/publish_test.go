package ledger

import (
	"testing"

	"github.com/dogechain-lab/moveledger/state"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPackage(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	publisher := testKey(t, 3).Address()

	modules := []types.PackageModule{{Name: "counter"}, {Name: "registry"}}

	resp, err := l.PublishPackage(publisher, modules, []types.ObjectID{types.FrameworkPackageID})
	require.NoError(t, err)
	require.False(t, resp.Failed(), "errors: %v", resp.Errors)

	pkg, ok := PublishedPackage(resp)
	require.True(t, ok)

	names, err := l.Package(pkg)
	require.NoError(t, err)
	assert.Equal(t, []string{"counter", "registry"}, names)

	// the upgrade capability goes back to the publisher
	var upgradeCap *types.Object

	for _, obj := range l.OwnedObjects(publisher) {
		if obj.Type != nil && obj.Type.String() == types.UpgradeCapType.String() {
			upgradeCap = obj
		}
	}

	require.NotNil(t, upgradeCap)

	// the publisher was funded up to the allowance and paid for gas
	balance := l.balance(t, publisher)
	assert.Less(t, balance, publishTopUp)
	assert.Greater(t, balance, publishTopUp-l.Params().MaxGasBudget)

	moved, err := l.Query(types.FilterBySender(publisher))
	require.NoError(t, err)
	assert.Len(t, moved, 1)
}

func TestPublishPackageErrors(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	publisher := l.alice.Address()

	_, err := l.PublishPackage(publisher, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPackage)

	resp, err := l.PublishPackage(publisher, []types.PackageModule{{Name: "a"}}, []types.ObjectID{types.ObjectIDFromUint64(0xdead)})
	require.NoError(t, err)
	require.True(t, resp.Failed())
	assert.Contains(t, resp.Errors[0], "PackageNotFound")

	_, ok := PublishedPackage(resp)
	assert.False(t, ok)

	_, err = l.Package(l.coin(l.bob, 0))
	assert.ErrorIs(t, err, ErrNotPackage)

	_, err = l.Package(types.ObjectIDFromUint64(0xdead))
	assert.ErrorIs(t, err, state.ErrObjectNotFound)
}
