package upstream

import (
	"context"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

type userPayload struct {
	ID         flexID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

func (p userPayload) toDomain() domain.User {
	return domain.User{
		ID:         p.ID.String(),
		Name:       p.Name,
		Email:      p.Email,
		Department: p.Department,
		Status:     domain.UserStatus(p.Status),
	}
}

// ListUsers fetches a single page of directory users.
func (c *Client) ListUsers(ctx context.Context, q port.ListQuery) ([]domain.User, error) {
	body, err := c.get(ctx, "/users", listQueryValues(q))
	if err != nil {
		return nil, err
	}

	payloads := []userPayload{}
	decodeCollection(body, "users", &payloads)

	users := make([]domain.User, 0, len(payloads))
	for _, p := range payloads {
		users = append(users, p.toDomain())
	}
	return users, nil
}

// FetchAllUsers walks every page of the user collection.
func (c *Client) FetchAllUsers(ctx context.Context) ([]domain.User, error) {
	var all []domain.User
	for page := 1; ; page++ {
		batch, err := c.ListUsers(ctx, port.ListQuery{Page: page, Limit: fetchAllPageCap})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < fetchAllPageCap {
			return all, nil
		}
	}
}
