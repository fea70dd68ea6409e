package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type University struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewUniversity struct {
	Name        string `json:"name"`
	Domain      string `json:"domain,omitempty"`
	Description string `json:"description,omitempty"`
}

// UniversityService covers the /universities endpoints.
type UniversityService struct {
	c *Client
}

func (c *Client) Universities() *UniversityService {
	return &UniversityService{c: c}
}

func (s *UniversityService) List(ctx context.Context) ([]University, error) {
	var out []University
	err := s.c.Get(ctx, "/universities", &out)
	return out, err
}

func (s *UniversityService) Get(ctx context.Context, id int) (University, error) {
	var out University
	err := s.c.Get(ctx, fmt.Sprintf("/universities/%d", id), &out)
	return out, err
}

func (s *UniversityService) Create(ctx context.Context, nu NewUniversity) (University, error) {
	var out University
	if err := s.c.Do(ctx, http.MethodPost, "/universities", nu, &out, nil); err != nil {
		return University{}, err
	}
	s.c.invalidateEndpoint("/universities")
	return out, nil
}

func (s *UniversityService) Update(ctx context.Context, id int, uu NewUniversity) (University, error) {
	var out University
	if err := s.c.Do(ctx, http.MethodPatch, fmt.Sprintf("/universities/%d", id), uu, &out, nil); err != nil {
		return University{}, err
	}
	s.c.invalidateEndpoint("/universities")
	return out, nil
}

func (s *UniversityService) Delete(ctx context.Context, id int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/universities/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.c.invalidateEndpoint("/universities")
	return nil
}
