// Package allocation turns a snapshot of room and Oasis preferences into
// capacity-respecting allocation records and audits stored allocation sets.
// Everything here is pure: no I/O, no locks, randomness only through an
// injected Shuffler.
package allocation

const (
	// OasisDailyCapacity is the Oasis headcount limit per weekday.
	OasisDailyCapacity = 11
	// MinTeamSize and MaxTeamSize bound project-room team sizes.
	MinTeamSize = 3
	MaxTeamSize = 6
	// MaxPreferredDays caps the Oasis days a person may request.
	MaxPreferredDays = 5

	// extra passes after the first, for both retry and bonus phases
	maxAdditionalPasses = 4
)

// Room is a bookable project room.
type Room struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Catalog is the ordered room list; allocation scans it front to back.
type Catalog []Room

// DefaultCatalog is the fixed room configuration: two rooms of six, seven of four.
var DefaultCatalog = Catalog{
	{Name: "Room A", Capacity: 6},
	{Name: "Room B", Capacity: 6},
	{Name: "Room C", Capacity: 4},
	{Name: "Room D", Capacity: 4},
	{Name: "Room E", Capacity: 4},
	{Name: "Room F", Capacity: 4},
	{Name: "Room G", Capacity: 4},
	{Name: "Room H", Capacity: 4},
	{Name: "Room I", Capacity: 4},
}

// Capacity returns the capacity of the named room.
func (c Catalog) Capacity(name string) (int, bool) {
	for _, room := range c {
		if room.Name == name {
			return room.Capacity, true
		}
	}
	return 0, false
}

// TotalCapacity sums the capacity of every room.
func (c Catalog) TotalCapacity() int {
	total := 0
	for _, room := range c {
		total += room.Capacity
	}
	return total
}
