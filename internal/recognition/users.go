package recognition

import (
	"context"
	"errors"
	"fmt"
)

// Users returns all registered users.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	users, err := doGetJSON[[]User](ctx, c, "users")
	if err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	return *users, nil
}

// CreateUser creates a user with the given display name. The name is
// normalized for whitespace before submission; the backend rejects
// duplicates.
func (c *Client) CreateUser(ctx context.Context, name string) (*User, error) {
	name = CleanSubjectName(name)
	if name == "" {
		return nil, errors.New("name must not be empty")
	}

	input := map[string]string{"name": name}
	resp, err := doPostJSON[createUserResponse](ctx, c, "users", input)
	if err != nil {
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	return &resp.User, nil
}

// DeleteUser removes a user and their face registration.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("user id must not be empty")
	}
	if err := doDeleteRaw(ctx, c, "users/"+id); err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	return nil
}

// FindUserByName looks a user up by display name, comparing normalized
// forms so diacritics and case differences still match.
func (c *Client) FindUserByName(ctx context.Context, name string) (*User, error) {
	users, err := c.Users(ctx)
	if err != nil {
		return nil, err
	}

	want := NormalizeSubjectName(name)
	for i := range users {
		if NormalizeSubjectName(users[i].Name) == want {
			return &users[i], nil
		}
	}
	return nil, nil
}
