package collection

import (
	"math/rand/v2"
	"strconv"
	"time"
)

var (
	groupPrefixes = []string{"P", "M", "R", "K", "N"}
	adminNames    = []string{"Alice", "Bob", "Carol", "Dmitry", "Eve", "Fang", "Giulia", "Hyun"}
)

// Random returns a valid group with the given id and creation date and
// pseudo-random contents drawn from r.
func Random(r *rand.Rand, id int32, created time.Time) Group {
	pick := func(n int) int { return r.IntN(n) }

	var sem *Semester
	if pick(5) > 0 {
		sem = SemesterOf(Semesters[pick(len(Semesters))])
	}

	return Group{
		ID:   id,
		Name: groupPrefixes[pick(len(groupPrefixes))] + strconv.Itoa(3100+pick(900)),
		Coordinates: Coordinates{
			X: int32(pick(2001) - 1000),
			Y: int64(pick(1266)) + MinCoordinateY + 1,
		},
		CreatedAt:        created,
		StudentsCount:    int64(5 + pick(30)),
		ExpelledStudents: int32(1 + pick(5)),
		AverageMark:      float64(200+pick(301)) / 100,
		Semester:         sem,
		Admin: Person{
			Name:        adminNames[pick(len(adminNames))],
			Height:      float32(150+pick(50)) + 0.5,
			EyeColor:    EyeColors[pick(len(EyeColors))],
			HairColor:   HairColors[pick(len(HairColors))],
			Nationality: Countries[pick(len(Countries))],
			Location: Location{
				X: int64(pick(200) - 100),
				Y: float64(pick(20000)-10000) / 100,
				Z: int64(pick(200) - 100),
			},
		},
	}
}
