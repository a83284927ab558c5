package core

import (
	"math/rand"
	"slices"

	"github.com/google/uuid"
)

type TeamID string

type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryApproved  EntryStatus = "approved"
	EntryRejected  EntryStatus = "rejected"
	EntryWithdrawn EntryStatus = "withdrawn"
)

// A TeamEntry is one team's registration in a tournament.
//
// Seed 0 means unseeded. Among approved entries all non-zero
// seeds are unique; unseeded entries sort after every seeded one.
type TeamEntry struct {
	ID          TeamID      `json:"id"`
	DisplayName string      `json:"display_name"`
	Seed        int         `json:"seed,omitempty"`
	Status      EntryStatus `json:"status"`
	Reason      string      `json:"reason,omitempty"`
}

// The Registry holds the ordered set of teams entered into a
// tournament. It is the leaf dependency of all bracket
// generators; the generators only ever see its approved entries.
type Registry struct {
	entries  []TeamEntry
	maxTeams int
}

// NewRegistry creates a registry that accepts up to maxTeams
// concurrently pending or approved entries. A maxTeams of 0
// means unbounded.
func NewRegistry(maxTeams int) *Registry {
	return &Registry{maxTeams: maxTeams}
}

// Register adds a team as pending. An empty id gets a fresh
// one assigned. The stored entry is returned.
func (r *Registry) Register(entry TeamEntry) (TeamEntry, error) {
	if entry.ID == "" {
		entry.ID = TeamID(uuid.NewString())
	}
	if _, ok := r.find(entry.ID); ok {
		return TeamEntry{}, validationErr("register", ErrDuplicateTeam)
	}
	if r.maxTeams > 0 && r.activeCount() >= r.maxTeams {
		return TeamEntry{}, validationErr("register", ErrCapacityExceeded)
	}

	entry.Status = EntryPending
	entry.Reason = ""
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *Registry) Approve(id TeamID) error {
	i, ok := r.find(id)
	if !ok {
		return validationErr("approve", ErrUnknownTeam)
	}
	if r.maxTeams > 0 && r.entries[i].Status != EntryApproved && len(r.Approved()) >= r.maxTeams {
		return validationErr("approve", ErrCapacityExceeded)
	}
	r.entries[i].Status = EntryApproved
	r.entries[i].Reason = ""
	return nil
}

func (r *Registry) Reject(id TeamID, reason string) error {
	i, ok := r.find(id)
	if !ok {
		return validationErr("reject", ErrUnknownTeam)
	}
	r.entries[i].Status = EntryRejected
	r.entries[i].Reason = reason
	return nil
}

// Withdraw marks the entry as withdrawn before the tournament
// has started. Once a bracket exists a withdrawal has to go
// through the progression engine as a forfeit instead, so the
// team stays part of the played history.
func (r *Registry) Withdraw(id TeamID, reason string) error {
	i, ok := r.find(id)
	if !ok {
		return validationErr("withdraw", ErrUnknownTeam)
	}
	r.entries[i].Status = EntryWithdrawn
	r.entries[i].Reason = reason
	return nil
}

// AssignSeeds seeds the approved entries. The order slice may be
// a total or partial ranking; approved teams not listed are
// shuffled onto the remaining seed slots by a rand source built
// from rngSeed, so a draw can be reproduced.
func (r *Registry) AssignSeeds(order []TeamID, rngSeed int64) error {
	approved := r.Approved()

	if len(order) > len(approved) {
		return validationErr("assign seeds", ErrSeedOutOfRange)
	}

	seen := make(map[TeamID]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return validationErr("assign seeds", ErrDuplicateSeed)
		}
		seen[id] = true

		i, ok := r.find(id)
		if !ok || r.entries[i].Status != EntryApproved {
			return validationErr("assign seeds", ErrUnknownTeam)
		}
	}

	unseeded := make([]TeamID, 0, len(approved))
	for _, e := range approved {
		if !seen[e.ID] {
			unseeded = append(unseeded, e.ID)
		}
	}
	rng := rand.New(rand.NewSource(rngSeed))
	rng.Shuffle(len(unseeded), func(i, j int) {
		unseeded[i], unseeded[j] = unseeded[j], unseeded[i]
	})

	seed := 1
	for _, id := range append(append(make([]TeamID, 0, len(order)+len(unseeded)), order...), unseeded...) {
		i, _ := r.find(id)
		r.entries[i].Seed = seed
		seed++
	}

	return nil
}

// Approved returns the approved entries sorted by seed, with
// unseeded entries after all seeded ones in registration order.
func (r *Registry) Approved() []TeamEntry {
	approved := make([]TeamEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Status == EntryApproved {
			approved = append(approved, e)
		}
	}
	slices.SortStableFunc(approved, func(a, b TeamEntry) int {
		return compareSeeds(a.Seed, b.Seed)
	})
	return approved
}

func (r *Registry) Entry(id TeamID) (TeamEntry, bool) {
	i, ok := r.find(id)
	if !ok {
		return TeamEntry{}, false
	}
	return r.entries[i], true
}

func (r *Registry) Entries() []TeamEntry {
	return slices.Clone(r.entries)
}

func (r *Registry) ApprovedCount() int {
	return len(r.Approved())
}

func (r *Registry) find(id TeamID) (int, bool) {
	for i, e := range r.entries {
		if e.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (r *Registry) activeCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Status == EntryPending || e.Status == EntryApproved {
			n++
		}
	}
	return n
}

// compareSeeds orders non-zero seeds ascending and sorts
// unseeded (zero) entries last.
func compareSeeds(a, b int) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	case a < b:
		return -1
	default:
		return 1
	}
}
