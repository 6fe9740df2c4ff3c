package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

type simPayload struct {
	ID           flexID  `json:"id"`
	Number       string  `json:"number"`
	Carrier      string  `json:"carrier"`
	Plan         string  `json:"plan"`
	ICCID        string  `json:"iccid"`
	Status       string  `json:"status"`
	AssignedToID *flexID `json:"assignedToId"`
}

func (p simPayload) toDomain() domain.SimCard {
	return domain.SimCard{
		ID:           p.ID.String(),
		Number:       p.Number,
		Carrier:      p.Carrier,
		Plan:         p.Plan,
		ICCID:        p.ICCID,
		Status:       domain.SimStatus(p.Status),
		AssignedToID: p.AssignedToID.ptr(),
	}
}

// ListSimCards fetches a single page of SIM inventory.
func (c *Client) ListSimCards(ctx context.Context, q port.ListQuery) ([]domain.SimCard, error) {
	body, err := c.get(ctx, "/simcards", listQueryValues(q))
	if err != nil {
		return nil, err
	}

	payloads := []simPayload{}
	decodeCollection(body, "simcards", &payloads)

	sims := make([]domain.SimCard, 0, len(payloads))
	for _, p := range payloads {
		sims = append(sims, p.toDomain())
	}
	return sims, nil
}

// FetchAllSimCards walks every page of the SIM collection.
func (c *Client) FetchAllSimCards(ctx context.Context) ([]domain.SimCard, error) {
	var all []domain.SimCard
	for page := 1; ; page++ {
		batch, err := c.ListSimCards(ctx, port.ListQuery{Page: page, Limit: fetchAllPageCap})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < fetchAllPageCap {
			return all, nil
		}
	}
}

// AssignSim attaches a SIM directly to a user, bypassing the attribution flow.
func (c *Client) AssignSim(ctx context.Context, simID, userID string) error {
	if simID == "" || userID == "" {
		return fmt.Errorf("sim id and user id are required")
	}

	payload := struct {
		UserID string `json:"userId"`
	}{UserID: userID}

	_, err := c.do(ctx, http.MethodPost, "/simcards/"+url.PathEscape(simID)+"/assign", nil, payload)
	return err
}

// UnassignSim detaches a SIM from its current holder.
func (c *Client) UnassignSim(ctx context.Context, simID string) error {
	if simID == "" {
		return fmt.Errorf("sim id is required")
	}

	_, err := c.do(ctx, http.MethodPost, "/simcards/"+url.PathEscape(simID)+"/unassign", nil, nil)
	return err
}
