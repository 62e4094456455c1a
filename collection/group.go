package collection

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// Semester is the semester a group is studying in.
type Semester string

const (
	SemesterSecond  Semester = "SECOND"
	SemesterThird   Semester = "THIRD"
	SemesterSeventh Semester = "SEVENTH"
	SemesterEighth  Semester = "EIGHTH"
)

// Semesters lists every valid [Semester].
var Semesters = []Semester{SemesterSecond, SemesterThird, SemesterSeventh, SemesterEighth}

// Color is an eye or hair color.
type Color string

const (
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorWhite  Color = "WHITE"
	ColorRed    Color = "RED"
	ColorBlack  Color = "BLACK"
	ColorOrange Color = "ORANGE"
)

var (
	// EyeColors lists the colors valid for [Person.EyeColor].
	EyeColors = []Color{ColorGreen, ColorYellow, ColorWhite}
	// HairColors lists the colors valid for [Person.HairColor].
	HairColors = []Color{ColorGreen, ColorRed, ColorBlack, ColorOrange, ColorWhite}
)

// Country is a nationality.
type Country string

const (
	CountryUnitedKingdom Country = "UNITED_KINGDOM"
	CountryChina         Country = "CHINA"
	CountryVatican       Country = "VATICAN"
	CountrySouthKorea    Country = "SOUTH_KOREA"
)

// Countries lists every valid [Country].
var Countries = []Country{CountryUnitedKingdom, CountryChina, CountryVatican, CountrySouthKorea}

// MinCoordinateY is the exclusive lower bound of [Coordinates.Y].
const MinCoordinateY = -266

// Coordinates locate a group.
type Coordinates struct {
	X int32 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
}

// Location is where a person lives.
type Location struct {
	X int64   `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z int64   `json:"z" yaml:"z"`
}

// Person is the administrator of a group.
type Person struct {
	Name        string   `json:"name"        yaml:"name"`
	Height      float32  `json:"height"      yaml:"height"`
	EyeColor    Color    `json:"eyeColor"    yaml:"eyeColor"`
	HairColor   Color    `json:"hairColor"   yaml:"hairColor"`
	Nationality Country  `json:"nationality" yaml:"nationality"`
	Location    Location `json:"location"    yaml:"location"`
}

// Group is one study group record.
type Group struct {
	CreatedAt        time.Time   `json:"creationDate"     yaml:"creationDate"`
	Semester         *Semester   `json:"semester"         yaml:"semester"`
	Name             string      `json:"name"             yaml:"name"`
	Admin            Person      `json:"groupAdmin"       yaml:"groupAdmin"`
	Coordinates      Coordinates `json:"coordinates"      yaml:"coordinates"`
	StudentsCount    int64       `json:"studentsCount"    yaml:"studentsCount"`
	AverageMark      float64     `json:"averageMark"      yaml:"averageMark"`
	ID               int32       `json:"id"               yaml:"id"`
	ExpelledStudents int32       `json:"expelledStudents" yaml:"expelledStudents"`
}

// TypeName is the element type reported by [Store.Type].
const TypeName = "StudyGroup"

func invalid(format string, args ...any) error {
	return ErrInvalidField.Detail(fmt.Sprintf(format, args...))
}

// Validate checks every field constraint of g.
func (g Group) Validate() error {
	switch {
	case g.ID <= 0:
		return invalid("id must be greater than 0")
	case strings.TrimSpace(g.Name) == "":
		return invalid("name must not be empty")
	case g.CreatedAt.IsZero():
		return invalid("creation date must be set")
	case g.StudentsCount <= 0:
		return invalid("students count must be greater than 0")
	case g.ExpelledStudents <= 0:
		return invalid("expelled students must be greater than 0")
	case !(g.AverageMark > 0):
		return invalid("average mark must be greater than 0")
	case g.Semester != nil && !slices.Contains(Semesters, *g.Semester):
		return invalid("unknown semester %q", *g.Semester)
	}

	if err := g.Coordinates.Validate(); err != nil {
		return err
	}

	return g.Admin.Validate()
}

// Validate checks the coordinate constraints.
func (c Coordinates) Validate() error {
	if c.Y <= MinCoordinateY {
		return invalid("coordinate y must be greater than %d", MinCoordinateY)
	}

	return nil
}

// Validate checks the person constraints.
func (p Person) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return invalid("admin name must not be empty")
	case !(p.Height > 0):
		return invalid("admin height must be greater than 0")
	case !slices.Contains(EyeColors, p.EyeColor):
		return invalid("unknown eye color %q", p.EyeColor)
	case !slices.Contains(HairColors, p.HairColor):
		return invalid("unknown hair color %q", p.HairColor)
	case !slices.Contains(Countries, p.Nationality):
		return invalid("unknown nationality %q", p.Nationality)
	}

	return nil
}

// SemesterOf returns a pointer to s for use in [Group.Semester].
func SemesterOf(s Semester) *Semester { return &s }

// String renders g on one line.
func (g Group) String() string {
	sem := "null"
	if g.Semester != nil {
		sem = string(*g.Semester)
	}

	return fmt.Sprintf(
		"Group{id=%d, name=%q, coordinates=(%d, %d), created=%s, students=%d, "+
			"expelled=%d, avgMark=%g, semester=%s, admin=%s}",
		g.ID, g.Name, g.Coordinates.X, g.Coordinates.Y,
		g.CreatedAt.Format(time.RFC3339), g.StudentsCount, g.ExpelledStudents,
		g.AverageMark, sem, g.Admin,
	)
}

// String renders p on one line.
func (p Person) String() string {
	return fmt.Sprintf(
		"Person{name=%q, height=%g, eyes=%s, hair=%s, nationality=%s, location=(%d, %g, %d)}",
		p.Name, p.Height, p.EyeColor, p.HairColor, p.Nationality,
		p.Location.X, p.Location.Y, p.Location.Z,
	)
}

// digest writes a canonical rendering of g used for change detection.
func (g Group) digest(w io.Writer) {
	sem := ""
	if g.Semester != nil {
		sem = string(*g.Semester)
	}

	fmt.Fprintf(w, "%d\x00%s\x00%d\x00%d\x00%d\x00%d\x00%d\x00%x\x00%s\x00",
		g.ID, g.Name, g.Coordinates.X, g.Coordinates.Y, g.CreatedAt.UnixNano(),
		g.StudentsCount, g.ExpelledStudents, g.AverageMark, sem)

	a := g.Admin
	fmt.Fprintf(w, "%s\x00%x\x00%s\x00%s\x00%s\x00%d\x00%x\x00%d\n",
		a.Name, a.Height, a.EyeColor, a.HairColor, a.Nationality,
		a.Location.X, a.Location.Y, a.Location.Z)
}
