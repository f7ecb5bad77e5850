package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"piccomarr/internal/sanitize"
)

// ViewerBaseURL is the root of the platform's reader pages.
const ViewerBaseURL = "https://piccoma.com/fr"

// titlePrefix matches the "#<number> " prefix Piccoma prepends to episode titles.
var titlePrefix = regexp.MustCompile(`^#\d+ `)

// UnitType discriminates between the two kinds of downloadable units.
type UnitType int

const (
	UnitEpisode UnitType = iota
	UnitVolume
)

func ParseUnitType(value string) (UnitType, error) {
	switch value {
	case "episode", "e":
		return UnitEpisode, nil
	case "volume", "v":
		return UnitVolume, nil
	default:
		return 0, fmt.Errorf("%q is not a valid media type, must be one of: episode, volume", value)
	}
}

func (t UnitType) String() string {
	if t == UnitVolume {
		return "volume"
	}
	return "episode"
}

// APICode returns the one-letter discriminator used by the platform API.
func (t UnitType) APICode() string {
	if t == UnitVolume {
		return "V"
	}
	return "E"
}

func (t *UnitType) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}

	switch code {
	case "E":
		*t = UnitEpisode
	case "V":
		*t = UnitVolume
	default:
		return fmt.Errorf("%q is not a valid media type code", code)
	}

	return nil
}

// RawUnit is one unit record as returned by the platform, either through
// the episodes API or the serie page payload.
type RawUnit struct {
	ID         UnitID   `json:"id"`
	ProductID  SerieID  `json:"product_id"`
	Volume     int      `json:"volume"`
	Title      string   `json:"title"`
	OrderValue int      `json:"order_value"`
	PageCount  int      `json:"page_count"`
	UseType    string   `json:"use_type"`
	Type       UnitType `json:"episode_type"`
}

// Unit is a single downloadable item of a serie. Immutable once built.
type Unit struct {
	title     string
	id        UnitID
	serieID   SerieID
	number    int
	access    AccessType
	pageCount int
}

// NewUnit normalizes a raw platform record into a Unit.
func NewUnit(raw RawUnit) (Unit, error) {
	access, err := ParseAccessType(raw.UseType)
	if err != nil {
		return Unit{}, fmt.Errorf("unit %s: %w", raw.ID, err)
	}

	var number int
	var title string

	switch raw.Type {
	case UnitVolume:
		number = raw.Volume
		title = fmt.Sprintf("Tome %02d", number)
	default:
		number = raw.OrderValue
		if len(raw.Title) == 0 {
			title = fmt.Sprintf("Episode %03d", number)
		} else {
			title = fmt.Sprintf("%03d - %s", number, titlePrefix.ReplaceAllString(raw.Title, ""))
		}
	}

	return Unit{
		title:     title,
		id:        raw.ID,
		serieID:   raw.ProductID,
		number:    number,
		access:    access,
		pageCount: raw.PageCount,
	}, nil
}

func (u Unit) ID() UnitID {
	return u.id
}

func (u Unit) SerieID() SerieID {
	return u.serieID
}

func (u Unit) Number() int {
	return u.number
}

func (u Unit) Title() string {
	return u.title
}

func (u Unit) PageCount() int {
	return u.pageCount
}

func (u Unit) Access() AccessType {
	return u.access
}

// Available reports whether the unit can be read by the current session.
func (u Unit) Available() bool {
	return u.access.Downloadable()
}

// Filename returns the on-disk archive name for the unit.
func (u Unit) Filename() string {
	return u.ArchiveName("cbz")
}

// ArchiveName returns the unit filename with the given archive extension.
func (u Unit) ArchiveName(ext string) string {
	return sanitize.Filename(u.title) + "." + ext
}

// PresentAt reports whether the unit archive with the given extension
// already exists in dir.
func (u Unit) PresentAt(dir, ext string) bool {
	info, err := os.Stat(filepath.Join(dir, u.ArchiveName(ext)))

	return err == nil && info.Mode().IsRegular()
}

// ViewerURL returns the unit's reader page URL.
func (u Unit) ViewerURL() string {
	return fmt.Sprintf("%s/viewer/%s/%s", ViewerBaseURL, u.serieID, u.id)
}
