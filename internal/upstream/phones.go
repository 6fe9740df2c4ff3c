package upstream

import (
	"context"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

type phonePayload struct {
	ID           flexID  `json:"id"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	SerialNumber string  `json:"serialNumber"`
	IMEI         string  `json:"imei"`
	Color        string  `json:"color"`
	Storage      string  `json:"storage"`
	Condition    string  `json:"condition"`
	Status       string  `json:"status"`
	AssignedToID *flexID `json:"assignedToId"`
}

func (p phonePayload) toDomain() domain.Phone {
	return domain.Phone{
		ID:           p.ID.String(),
		Brand:        p.Brand,
		Model:        p.Model,
		SerialNumber: p.SerialNumber,
		IMEI:         p.IMEI,
		Color:        p.Color,
		Storage:      p.Storage,
		Condition:    p.Condition,
		Status:       domain.PhoneStatus(p.Status),
		AssignedToID: p.AssignedToID.ptr(),
	}
}

// ListPhones fetches a single page of device inventory.
func (c *Client) ListPhones(ctx context.Context, q port.ListQuery) ([]domain.Phone, error) {
	body, err := c.get(ctx, "/phones", listQueryValues(q))
	if err != nil {
		return nil, err
	}

	payloads := []phonePayload{}
	decodeCollection(body, "phones", &payloads)

	phones := make([]domain.Phone, 0, len(payloads))
	for _, p := range payloads {
		phones = append(phones, p.toDomain())
	}
	return phones, nil
}

// FetchAllPhones walks every page of the phone collection.
func (c *Client) FetchAllPhones(ctx context.Context) ([]domain.Phone, error) {
	var all []domain.Phone
	for page := 1; ; page++ {
		batch, err := c.ListPhones(ctx, port.ListQuery{Page: page, Limit: fetchAllPageCap})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < fetchAllPageCap {
			return all, nil
		}
	}
}
