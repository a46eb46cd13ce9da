package allocation

import (
	"math/rand"
	"slices"
	"time"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

// Priority ranks a team for placement. Size dominates; an earlier submission
// only breaks ties between equal sizes. A zero Submitted time ranks ahead of
// any real timestamp.
type Priority struct {
	Size      int
	Submitted time.Time
}

// PriorityOf derives the ranking key for a preference.
func PriorityOf(pref models.TeamPreference) Priority {
	return Priority{Size: pref.TeamSize, Submitted: pref.SubmissionTime}
}

// Compare orders priorities highest first: it returns a negative value when p
// should be placed before other, positive when after, zero for a tie.
func (p Priority) Compare(other Priority) int {
	if p.Size != other.Size {
		return other.Size - p.Size
	}
	return p.Submitted.Compare(other.Submitted)
}

// Score reproduces the legacy numeric form: size*10 minus a thousandth of the
// submission time in hours since the epoch. Reporting only; ordering uses Compare.
func (p Priority) Score() float64 {
	score := float64(p.Size * 10)
	if !p.Submitted.IsZero() {
		hours := float64(p.Submitted.Unix()) / 3600
		score -= hours * 0.001
	}
	return score
}

// Shuffler randomizes the order of n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// seededShuffler returns a deterministic Shuffler for the given seed.
func seededShuffler(seed int64) Shuffler {
	return rand.New(rand.NewSource(seed))
}

// rankTeams shuffles then stable-sorts, so teams with identical priority end
// up in uniformly random relative order.
func rankTeams(teams []models.TeamPreference, shuffler Shuffler) {
	shuffler.Shuffle(len(teams), func(i, j int) {
		teams[i], teams[j] = teams[j], teams[i]
	})
	slices.SortStableFunc(teams, func(a, b models.TeamPreference) int {
		return PriorityOf(a).Compare(PriorityOf(b))
	})
}
