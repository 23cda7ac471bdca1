package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatsuya-kayama-ml/atsume/assign"
	"github.com/tatsuya-kayama-ml/atsume/models"
)

type teamFixture struct {
	teams        *fakeTeamRepo
	participants *fakeParticipantRepo
	svc          TeamService
}

func newTeamFixture() *teamFixture {
	f := &teamFixture{
		teams:        newFakeTeamRepo(),
		participants: newFakeParticipantRepo(),
	}
	f.svc = NewTeamService(nil, f.teams, f.participants, testLogger())
	return f
}

func (f *teamFixture) seedParticipants(eventID, count int, checkedIn bool) {
	for i := 0; i < count; i++ {
		skill := i%5 + 1
		f.participants.participants = append(f.participants.participants, &models.Participant{
			ID:         len(f.participants.participants) + 1,
			EventID:    eventID,
			Name:       "Player",
			SkillLevel: &skill,
			CheckedIn:  checkedIn,
		})
	}
}

func TestAssignTeamsCreatesNamedTeams(t *testing.T) {
	f := newTeamFixture()
	f.seedParticipants(1, 6, true)

	assignments, err := f.svc.AssignTeams(context.Background(), AssignTeamsParams{
		EventID:   1,
		TeamCount: 2,
		Mode:      assign.ModeBalanced,
	})
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	assert.Equal(t, "Team 1", assignments[0].Team.Name)
	assert.Equal(t, "red", assignments[0].Team.Color)
	assert.Equal(t, 0, assignments[0].Team.OrderIndex)
	assert.Equal(t, "Team 2", assignments[1].Team.Name)
	assert.Equal(t, "blue", assignments[1].Team.Color)

	for _, a := range assignments {
		assert.NotZero(t, a.Team.ID)
		assert.Len(t, a.Members, 3)
	}

	stored, err := f.svc.ListTeams(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAssignTeamsReplacesPreviousSet(t *testing.T) {
	f := newTeamFixture()
	f.seedParticipants(1, 8, true)
	ctx := context.Background()

	_, err := f.svc.AssignTeams(ctx, AssignTeamsParams{
		EventID: 1, TeamCount: 4, Mode: assign.ModeRandom, Rand: rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)

	assignments, err := f.svc.AssignTeams(ctx, AssignTeamsParams{
		EventID: 1, TeamCount: 2, Mode: assign.ModeRandom, Rand: rand.New(rand.NewSource(2)),
	})
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	stored, err := f.svc.ListTeams(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "the previous generated set is discarded")
}

func TestAssignTeamsCheckedInOnly(t *testing.T) {
	f := newTeamFixture()
	f.seedParticipants(1, 4, true)
	f.seedParticipants(1, 4, false)

	assignments, err := f.svc.AssignTeams(context.Background(), AssignTeamsParams{
		EventID:       1,
		TeamCount:     2,
		Mode:          assign.ModeBalanced,
		CheckedInOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Len(t, assignments[0].Members, 2)
	assert.Len(t, assignments[1].Members, 2)
}

func TestAssignTeamsNoParticipants(t *testing.T) {
	f := newTeamFixture()

	_, err := f.svc.AssignTeams(context.Background(), AssignTeamsParams{
		EventID: 1, TeamCount: 2, Mode: assign.ModeRandom,
	})
	assert.True(t, errors.Is(err, ErrNoParticipants))
}

func TestDeleteTeams(t *testing.T) {
	f := newTeamFixture()
	f.seedParticipants(1, 4, true)
	ctx := context.Background()

	_, err := f.svc.AssignTeams(ctx, AssignTeamsParams{
		EventID: 1, TeamCount: 2, Mode: assign.ModeRandom, Rand: rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTeams(ctx, 1))
	stored, err := f.svc.ListTeams(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
