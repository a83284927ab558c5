package core

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func testTournament(t *testing.T, n int, cfg Config) *Tournament {
	t.Helper()

	tournament := NewTournament("tt-1", "Test Cup", cfg, zerolog.Nop())
	if err := tournament.OpenRegistration(); err != nil {
		t.Fatal(err)
	}
	for _, team := range testTeams(n) {
		team.Status = ""
		if _, err := tournament.Registry.Register(team); err != nil {
			t.Fatal(err)
		}
		if err := tournament.Registry.Approve(team.ID); err != nil {
			t.Fatal(err)
		}
	}
	return tournament
}

func TestTournamentLifecycle(t *testing.T) {
	tournament := testTournament(t, 4, Config{Format: FormatSingleElimination})

	// Starting from open registration is not allowed.
	if err := tournament.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("start from open registration: %v", err)
	}

	if err := tournament.CloseRegistration(); err != nil {
		t.Fatal(err)
	}
	if err := tournament.Start(); err != nil {
		t.Fatal(err)
	}
	if tournament.Status != StatusInProgress || tournament.Bracket == nil {
		t.Fatalf("status %q after start, bracket %v", tournament.Status, tournament.Bracket)
	}

	for _, res := range []GameResult{
		{GameID: "R1M1", Winner: "T1", ScoreA: 2, Final: true},
		{GameID: "R1M2", Winner: "T2", ScoreA: 2, Final: true},
	} {
		if _, err := tournament.Submit(res); err != nil {
			t.Fatal(err)
		}
	}

	signal, err := tournament.Submit(GameResult{GameID: "R2M1", Winner: "T1", ScoreA: 2, Final: true})
	if err != nil {
		t.Fatal(err)
	}
	if signal != Finished || tournament.Status != StatusCompleted {
		t.Fatalf("signal %v, status %q after final", signal, tournament.Status)
	}

	champion, err := tournament.Champion()
	if err != nil || champion != "T1" {
		t.Fatalf("champion %q, %v", champion, err)
	}

	// Terminal states reject everything.
	if err := tournament.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel after completion: %v", err)
	}
	if _, err := tournament.Submit(GameResult{GameID: "R1M1", Winner: "T1", Final: true}); err == nil {
		t.Fatal("submit accepted after completion")
	}
}

func TestTournamentRegistrationGuards(t *testing.T) {
	tournament := NewTournament("tt-2", "Empty Cup", Config{Format: FormatSingleElimination}, zerolog.Nop())

	if err := tournament.CloseRegistration(); err == nil {
		t.Fatal("closed registration before opening it")
	}
	if err := tournament.OpenRegistration(); err != nil {
		t.Fatal(err)
	}

	// Below the format minimum the window cannot close.
	if err := tournament.CloseRegistration(); !errors.Is(err, ErrInsufficientTeams) {
		t.Fatalf("got %v, want insufficient teams", err)
	}
}

func TestTournamentLifecycleOnlyMovesForward(t *testing.T) {
	tournament := testTournament(t, 4, Config{Format: FormatSingleElimination})

	if err := tournament.CloseRegistration(); err != nil {
		t.Fatal(err)
	}

	// A closed registration never reopens.
	if err := tournament.OpenRegistration(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v, want invalid transition", err)
	}
	if tournament.Status != StatusRegistrationClosed {
		t.Fatalf("status is %q, want registration closed", tournament.Status)
	}
}

func TestTournamentWithdrawRoutesToForfeit(t *testing.T) {
	tournament := testTournament(t, 4, Config{Format: FormatSingleElimination})
	if err := tournament.CloseRegistration(); err != nil {
		t.Fatal(err)
	}
	if err := tournament.Start(); err != nil {
		t.Fatal(err)
	}

	if err := tournament.Withdraw("T4", "travel"); err != nil {
		t.Fatal(err)
	}

	ref, _ := tournament.Bracket.Find("R1M1")
	g := tournament.Bracket.game(ref)
	if !g.Forfeit || g.Winner != "T1" {
		t.Fatalf("withdrawal did not forfeit the pending game: %+v", g)
	}

	entry, _ := tournament.Registry.Entry("T4")
	if entry.Status != EntryWithdrawn || entry.Reason != "travel" {
		t.Fatalf("registry entry is %+v", entry)
	}
}

func TestTournamentCancel(t *testing.T) {
	tournament := testTournament(t, 4, Config{Format: FormatSingleElimination})

	if err := tournament.Cancel(); err != nil {
		t.Fatal(err)
	}
	if tournament.Status != StatusCancelled {
		t.Fatalf("status is %q, want cancelled", tournament.Status)
	}
	if err := tournament.OpenRegistration(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatal("cancelled tournament accepted a transition")
	}
}

func TestTournamentLadderSeason(t *testing.T) {
	tournament := testTournament(t, 4, Config{Format: FormatLadder})
	if err := tournament.CloseRegistration(); err != nil {
		t.Fatal(err)
	}
	if err := tournament.Start(); err != nil {
		t.Fatal(err)
	}

	challenge, err := tournament.OpenChallenge("T2", "T1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tournament.Submit(GameResult{
		GameID: challenge.Game.ID,
		Winner: "T2",
		ScoreA: 2,
		Final:  true,
	}); err != nil {
		t.Fatal(err)
	}

	if err := tournament.CloseSeason(); err != nil {
		t.Fatal(err)
	}
	if tournament.Status != StatusCompleted {
		t.Fatalf("status is %q, want completed", tournament.Status)
	}
	champion, err := tournament.Champion()
	if err != nil || champion != "T2" {
		t.Fatalf("champion %q, %v", champion, err)
	}
}
