// Package source resolves a serie's unit list from the platform.
//
// Two discovery strategies exist: the JSON API and the serie web page.
// The API needs a logged-in session but always returns the complete
// list. The web payload is complete for guests only, it omits already
// read units once logged in. So the API is used whenever the session
// allows it, and the page scrape covers anonymous runs.
package source

import (
	"context"
	"fmt"

	"piccomarr/internal/client"
	"piccomarr/internal/domain"
)

// serieData is the record shape both strategies reduce to.
type serieData struct {
	Product struct {
		Title string `json:"title"`
	} `json:"product"`
	EpisodeList []domain.RawUnit `json:"episode_list"`
	VolumeList  []domain.RawUnit `json:"volume_list"`
}

func (d serieData) units() []domain.RawUnit {
	return append(d.EpisodeList, d.VolumeList...)
}

type strategy interface {
	resolve(ctx context.Context, c *client.Client, id domain.SerieID, unitType domain.UnitType) (serieData, error)
}

// ResolveSerie fetches the serie metadata and normalizes every unit
// record. A malformed record aborts the whole resolution.
func ResolveSerie(ctx context.Context, c *client.Client, id domain.SerieID, unitType domain.UnitType) (domain.Serie, error) {
	var s strategy = webStrategy{}
	if c.IsLoggedIn() {
		s = apiStrategy{}
	}

	data, err := s.resolve(ctx, c, id, unitType)
	if err != nil {
		return domain.Serie{}, err
	}

	raws := data.units()
	units := make([]domain.Unit, 0, len(raws))
	for _, raw := range raws {
		unit, err := domain.NewUnit(raw)
		if err != nil {
			return domain.Serie{}, fmt.Errorf("extract units of serie %s: %w", id, err)
		}
		units = append(units, unit)
	}

	serie, err := domain.NewSerie(data.Product.Title, units)
	if err != nil {
		return domain.Serie{}, fmt.Errorf("serie %s: %w", id, err)
	}

	return serie, nil
}
