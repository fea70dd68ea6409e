package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/epistula/epistula-go/core/user"
)

// UserService covers the /users endpoints. Listing is restricted to
// uni_admin and root on the backend; the client does not pre-enforce roles.
type UserService struct {
	c *Client
}

func (c *Client) Users() *UserService {
	return &UserService{c: c}
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := s.c.Get(ctx, "/users", &out)
	return out, err
}

func (s *UserService) Get(ctx context.Context, id int) (user.User, error) {
	var out user.User
	err := s.c.Get(ctx, fmt.Sprintf("/users/%d", id), &out)
	return out, err
}

func (s *UserService) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	var out user.User
	if err := s.c.Do(ctx, http.MethodPost, "/users", nu, &out, nil); err != nil {
		return user.User{}, err
	}
	s.c.invalidateEndpoint("/users")
	return out, nil
}

func (s *UserService) Update(ctx context.Context, id int, uu user.UpdateUser) (user.User, error) {
	var out user.User
	if err := s.c.Do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), uu, &out, nil); err != nil {
		return user.User{}, err
	}
	s.c.invalidateEndpoint("/users")
	return out, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.c.invalidateEndpoint("/users")
	return nil
}
