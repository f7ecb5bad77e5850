package source

import (
	"context"
	"fmt"

	"piccomarr/internal/client"
	"piccomarr/internal/domain"
)

// apiStrategy queries the episodes endpoint. The response is complete
// regardless of read state, which is why it is preferred once logged in.
type apiStrategy struct{}

type apiResponse struct {
	Data serieData `json:"data"`
}

func (apiStrategy) resolve(ctx context.Context, c *client.Client, id domain.SerieID, unitType domain.UnitType) (serieData, error) {
	url := fmt.Sprintf("%s/api/haribo/api/web/v3/product/%s/episodes?episode_type=%s&product_id=%s",
		c.BaseURL(), id, unitType.APICode(), id)

	var resp apiResponse
	if err := c.GetJSON(ctx, url, &resp); err != nil {
		return serieData{}, fmt.Errorf("get serie %s info from API: %w", id, err)
	}

	return resp.Data, nil
}
