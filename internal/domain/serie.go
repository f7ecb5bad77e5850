package domain

import (
	"fmt"
	"strconv"
)

// SerieID identifies a serie on Piccoma.
type SerieID uint32

func ParseSerieID(value string) (SerieID, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid serie ID %q: %w", value, err)
	}

	return SerieID(id), nil
}

func (id SerieID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// UnitID identifies an episode or volume on Piccoma.
type UnitID uint32

func ParseUnitID(value string) (UnitID, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unit ID %q: %w", value, err)
	}

	return UnitID(id), nil
}

func (id UnitID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Serie is a titled collection of units, built once per invocation.
type Serie struct {
	title string
	units []Unit
}

func NewSerie(title string, units []Unit) (Serie, error) {
	if len(title) == 0 {
		return Serie{}, fmt.Errorf("empty serie title")
	}

	return Serie{
		title: title,
		units: units,
	}, nil
}

func (s Serie) Title() string {
	return s.title
}

func (s Serie) UnitCount() int {
	return len(s.units)
}

func (s Serie) Units() []Unit {
	return s.units
}

// FindByNumber returns the unit with the given number in the serie.
func (s Serie) FindByNumber(number int) (Unit, bool) {
	for _, unit := range s.units {
		if unit.Number() == number {
			return unit, true
		}
	}

	return Unit{}, false
}
