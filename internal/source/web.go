package source

import (
	"context"
	"encoding/json"
	"fmt"

	"piccomarr/internal/client"
	"piccomarr/internal/domain"
)

// webStrategy scrapes the serie's public page and re-parses the JSON
// payload the web UI itself renders from.
type webStrategy struct{}

type serieNextData struct {
	Props struct {
		PageProps struct {
			InitialState struct {
				ProductHome struct {
					ProductHome serieData `json:"productHome"`
				} `json:"productHome"`
			} `json:"initialState"`
		} `json:"pageProps"`
	} `json:"props"`
}

func (webStrategy) resolve(ctx context.Context, c *client.Client, id domain.SerieID, unitType domain.UnitType) (serieData, error) {
	url := fmt.Sprintf("%s/product/%s/%s", c.BaseURL(), unitType, id)

	doc, err := c.GetHTML(ctx, url)
	if err != nil {
		return serieData{}, fmt.Errorf("get serie %s page: %w", id, err)
	}

	payload, err := ExtractNextData(doc)
	if err != nil {
		return serieData{}, fmt.Errorf("serie %s page: %w", id, err)
	}

	var data serieNextData
	if err := json.Unmarshal(payload, &data); err != nil {
		return serieData{}, fmt.Errorf("parse serie %s payload: %w", id, err)
	}

	return data.Props.PageProps.InitialState.ProductHome.ProductHome, nil
}
