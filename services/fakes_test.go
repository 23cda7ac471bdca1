package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/tatsuya-kayama-ml/atsume/models"
	"github.com/tatsuya-kayama-ml/atsume/repositories"
)

// In-memory repositories backing the service tests. The exec argument is
// ignored: the services run their transactional blocks with a nil handle
// when constructed without a database.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	nextID int
	byID   map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{byID: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	stored := *t
	stored.Matches, stored.Standings, stored.Teams = nil, nil, nil
	r.byID[t.ID] = &stored
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) GetByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) (*models.Tournament, error) {
	var newest *models.Tournament
	for _, t := range r.byID {
		if t.EventID != eventID {
			continue
		}
		if newest == nil || t.ID > newest.ID {
			newest = t
		}
	}
	if newest == nil {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *newest
	return &cp, nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.byID[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches []*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo { return &fakeMatchRepo{} }

func (r *fakeMatchRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	for _, m := range matches {
		r.nextID++
		m.ID = r.nextID
		m.CreatedAt = time.Now()
		stored := *m
		r.matches = append(r.matches, &stored)
	}
	return nil
}

func (r *fakeMatchRepo) find(id int) *models.Match {
	for _, m := range r.matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m := r.find(id)
	if m == nil {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, id, score1, score2 int, winnerID *int, status models.MatchStatus) error {
	m := r.find(id)
	if m == nil {
		return repositories.ErrMatchNotFound
	}
	s1, s2 := score1, score2
	m.Score1, m.Score2 = &s1, &s2
	m.WinnerID = winnerID
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) FillSlot(_ context.Context, _ repositories.SQLExecutor, id, slot, teamID int) error {
	m := r.find(id)
	if m == nil {
		return repositories.ErrMatchNotFound
	}
	team := teamID
	if slot == 1 {
		m.Team1ID, m.Slot1Ref = &team, nil
	} else {
		m.Team2ID, m.Slot2Ref = &team, nil
	}
	return nil
}

func (r *fakeMatchRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	kept := r.matches[:0]
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			kept = append(kept, m)
		}
	}
	r.matches = kept
	return nil
}

type fakeStandingRepo struct {
	nextID int
	rows   []*models.Standing
}

func newFakeStandingRepo() *fakeStandingRepo { return &fakeStandingRepo{} }

func (r *fakeStandingRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, standings []*models.Standing) error {
	for _, s := range standings {
		r.nextID++
		s.ID = r.nextID
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = time.Now()
		}
		stored := *s
		r.rows = append(r.rows, &stored)
	}
	return nil
}

func (r *fakeStandingRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Standing, error) {
	var out []*models.Standing
	for _, s := range r.rows {
		if s.TournamentID == tournamentID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (r *fakeStandingRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	kept := r.rows[:0]
	for _, s := range r.rows {
		if s.TournamentID != tournamentID {
			kept = append(kept, s)
		}
	}
	r.rows = kept
	return nil
}

type fakeTeamRepo struct {
	nextID int
	teams  []*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo { return &fakeTeamRepo{} }

func (r *fakeTeamRepo) seed(eventID int, ids ...int) {
	for i, id := range ids {
		if id > r.nextID {
			r.nextID = id
		}
		r.teams = append(r.teams, &models.Team{ID: id, EventID: eventID, OrderIndex: i})
	}
}

func (r *fakeTeamRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, teams []*models.Team) error {
	for _, t := range teams {
		r.nextID++
		t.ID = r.nextID
		t.CreatedAt = time.Now()
		stored := *t
		r.teams = append(r.teams, &stored)
	}
	return nil
}

func (r *fakeTeamRepo) ListByEvent(_ context.Context, eventID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range r.teams {
		if t.EventID == eventID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeTeamRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Team, error) {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Team
	for _, t := range r.teams {
		if want[t.ID] {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) DeleteByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) error {
	kept := r.teams[:0]
	for _, t := range r.teams {
		if t.EventID != eventID {
			kept = append(kept, t)
		}
	}
	r.teams = kept
	return nil
}

type fakeParticipantRepo struct {
	participants []*models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo { return &fakeParticipantRepo{} }

func (r *fakeParticipantRepo) ListByEvent(_ context.Context, eventID int, checkedInOnly bool) ([]*models.Participant, error) {
	var out []*models.Participant
	for _, p := range r.participants {
		if p.EventID != eventID {
			continue
		}
		if checkedInOnly && !p.CheckedIn {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
