package integration

import (
	"context"
	"testing"

	"github.com/bojanv/teamo-api/internal/events"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/bojanv/teamo-api/internal/services"
	"github.com/bojanv/teamo-api/tests/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInviteService(tdb *testutil.TestDB) (*services.InviteService, *services.TeamService, *events.Bus) {
	bus := events.NewBus(zerolog.Nop())
	ledger := services.NewMembershipService(tdb.DB)
	teams := services.NewTeamService(tdb.DB, ledger, bus)
	return services.NewInviteService(tdb.DB, teams, bus), teams, bus
}

func TestInviteService_Integration_InviteAndAccept(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _, bus := newInviteService(tdb)
	ctx := context.Background()

	var invited []events.UserInvitedToTeam
	bus.Subscribe(events.UserInvitedToTeam{}.Name(), func(_ context.Context, e events.Event) {
		invited = append(invited, e.(events.UserInvitedToTeam))
	})

	inviter := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, inviter)
	fixtures.SetCurrentTeam(t, inviter, team)

	recipient := fixtures.CreateUser(t, testutil.WithEmail("invitee@example.com"))

	invite, err := svc.InviteToTeam(ctx, inviter, "invitee@example.com", team.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.InviteTypeInvite, invite.Type)
	assert.Equal(t, "invitee@example.com", invite.Email)
	assert.Len(t, invite.AcceptToken, 64)
	assert.Len(t, invite.DenyToken, 64)
	require.Len(t, invited, 1)
	assert.Same(t, invite, invited[0].Invite)

	pending, err := svc.HasPendingInvite(ctx, "invitee@example.com", team.ID)
	require.NoError(t, err)
	assert.True(t, pending)

	// The emailed accept token resolves back to the invite
	fetched, err := svc.GetInviteFromAcceptToken(ctx, invite.AcceptToken)
	require.NoError(t, err)
	assert.Equal(t, invite.ID, fetched.ID)

	// Accepting attaches the recipient and burns the invite
	err = svc.AcceptInvite(ctx, recipient, fetched)
	require.NoError(t, err)

	member, err := services.NewMembershipService(tdb.DB).Contains(ctx, recipient.ID, team.ID)
	require.NoError(t, err)
	assert.True(t, member)
	require.NotNil(t, recipient.CurrentTeamID)
	assert.Equal(t, team.ID, *recipient.CurrentTeamID)

	pending, err = svc.HasPendingInvite(ctx, "invitee@example.com", team.ID)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestInviteService_Integration_Deny(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _, _ := newInviteService(tdb)
	ctx := context.Background()

	inviter := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, inviter)
	invite := fixtures.CreateInvite(t, inviter, team, "declined@example.com")

	fetched, err := svc.GetInviteFromDenyToken(ctx, invite.DenyToken)
	require.NoError(t, err)

	err = svc.DenyInvite(ctx, fetched)
	require.NoError(t, err)

	// Invite is gone and nobody joined
	pending, err := svc.HasPendingInvite(ctx, "declined@example.com", team.ID)
	require.NoError(t, err)
	assert.False(t, pending)

	members, err := services.NewMembershipService(tdb.DB).ListMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestInviteService_Integration_InviteDefaultsToCurrentTeam(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _, _ := newInviteService(tdb)
	ctx := context.Background()

	inviter := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, inviter)
	fixtures.SetCurrentTeam(t, inviter, team)

	invite, err := svc.InviteToTeam(ctx, inviter, "someone@example.com", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, team.ID, invite.TeamID)

	// An inviter without a current team cannot rely on the default
	drifter := fixtures.CreateUser(t)
	_, err = svc.InviteToTeam(ctx, drifter, "other@example.com", nil, nil)
	assert.ErrorIs(t, err, services.ErrNoCurrentTeam)
}

func TestInviteService_Integration_RequestToJoin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _, _ := newInviteService(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	requester := fixtures.CreateUser(t)

	invite, err := svc.RequestToJoin(ctx, requester, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteTypeRequest, invite.Type)
	assert.Equal(t, requester.Email, invite.Email)

	invites, err := svc.PendingInvitesForTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, invite.ID, invites[0].ID)
}
