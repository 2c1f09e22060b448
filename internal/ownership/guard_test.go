package ownership

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ownedThing struct {
	owner uuid.UUID
}

func (o ownedThing) OwnedBy() uuid.UUID {
	return o.owner
}

func TestAuthorize_OwnerAllowed(t *testing.T) {
	owner := uuid.New()
	err := Authorize(owner, ownedThing{owner: owner})
	assert.NoError(t, err)
}

func TestAuthorize_NonOwnerRejected(t *testing.T) {
	err := Authorize(uuid.New(), ownedThing{owner: uuid.New()})
	require.Error(t, err)
	assert.True(t, IsNotOwner(err))
	assert.False(t, IsUnauthenticated(err))
}

func TestAuthorize_AnonymousFailsClosed(t *testing.T) {
	// even when the entity's owner is somehow the zero id, an anonymous
	// actor must never pass
	err := Authorize(uuid.Nil, ownedThing{owner: uuid.Nil})
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
}
