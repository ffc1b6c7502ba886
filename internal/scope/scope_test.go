package scope

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamID_RoundTrip(t *testing.T) {
	teamID := uuid.New()
	ctx := WithTeam(context.Background(), teamID)

	got, err := TeamID(ctx)

	require.NoError(t, err)
	assert.Equal(t, teamID, got)
}

func TestTeamID_MissingContext(t *testing.T) {
	_, err := TeamID(context.Background())

	assert.ErrorIs(t, err, ErrNoTeamContext)
}

func TestTeamID_NilUUID(t *testing.T) {
	ctx := WithTeam(context.Background(), uuid.Nil)

	_, err := TeamID(ctx)

	assert.ErrorIs(t, err, ErrNoTeamContext)
}
