package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Faculty struct {
	ID           int       `json:"id"`
	UniversityID int       `json:"university_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type NewFaculty struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Member links a user to a faculty or subject with a role.
type Member struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
}

// FacultyService covers /universities/{id}/faculties and /faculties.
type FacultyService struct {
	c     *Client
	uniID int
}

func (c *Client) Faculties(universityID int) *FacultyService {
	return &FacultyService{c: c, uniID: universityID}
}

func (s *FacultyService) List(ctx context.Context) ([]Faculty, error) {
	var out []Faculty
	err := s.c.Get(ctx, fmt.Sprintf("/universities/%d/faculties", s.uniID), &out)
	return out, err
}

func (s *FacultyService) Get(ctx context.Context, id int) (Faculty, error) {
	var out Faculty
	err := s.c.Get(ctx, fmt.Sprintf("/faculties/%d", id), &out)
	return out, err
}

func (s *FacultyService) Create(ctx context.Context, nf NewFaculty) (Faculty, error) {
	var out Faculty
	if err := s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/universities/%d/faculties", s.uniID), nf, &out, nil); err != nil {
		return Faculty{}, err
	}
	s.invalidate()
	return out, nil
}

func (s *FacultyService) Update(ctx context.Context, id int, uf NewFaculty) (Faculty, error) {
	var out Faculty
	if err := s.c.Do(ctx, http.MethodPatch, fmt.Sprintf("/faculties/%d", id), uf, &out, nil); err != nil {
		return Faculty{}, err
	}
	s.invalidate()
	return out, nil
}

func (s *FacultyService) Delete(ctx context.Context, id int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/faculties/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Members lists the faculty's members with their roles.
func (s *FacultyService) Members(ctx context.Context, id int) ([]Member, error) {
	var out []Member
	err := s.c.Get(ctx, fmt.Sprintf("/faculties/%d/members", id), &out)
	return out, err
}

func (s *FacultyService) AddMember(ctx context.Context, id int, m Member) error {
	if err := s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/faculties/%d/members", id), m, nil, nil); err != nil {
		return err
	}
	s.c.invalidateEndpoint(fmt.Sprintf("/faculties/%d/members", id))
	return nil
}

func (s *FacultyService) RemoveMember(ctx context.Context, id, userID int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/faculties/%d/members/%d", id, userID), nil, nil, nil); err != nil {
		return err
	}
	s.c.invalidateEndpoint(fmt.Sprintf("/faculties/%d/members", id))
	return nil
}

func (s *FacultyService) invalidate() {
	s.c.invalidateEndpoint(fmt.Sprintf("/universities/%d/faculties", s.uniID))
	s.c.invalidateEndpoint("/faculties")
}
