package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Subject struct {
	ID        int       `json:"id"`
	FacultyID int       `json:"faculty_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	Semester  int       `json:"semester,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewSubject struct {
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Semester int    `json:"semester,omitempty"`
}

// SubjectService covers /faculties/{id}/subjects and /subjects.
type SubjectService struct {
	c         *Client
	facultyID int
}

func (c *Client) Subjects(facultyID int) *SubjectService {
	return &SubjectService{c: c, facultyID: facultyID}
}

func (s *SubjectService) List(ctx context.Context) ([]Subject, error) {
	var out []Subject
	err := s.c.Get(ctx, fmt.Sprintf("/faculties/%d/subjects", s.facultyID), &out)
	return out, err
}

func (s *SubjectService) Get(ctx context.Context, id int) (Subject, error) {
	var out Subject
	err := s.c.Get(ctx, fmt.Sprintf("/subjects/%d", id), &out)
	return out, err
}

func (s *SubjectService) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	var out Subject
	if err := s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/faculties/%d/subjects", s.facultyID), ns, &out, nil); err != nil {
		return Subject{}, err
	}
	s.invalidate()
	return out, nil
}

func (s *SubjectService) Update(ctx context.Context, id int, us NewSubject) (Subject, error) {
	var out Subject
	if err := s.c.Do(ctx, http.MethodPatch, fmt.Sprintf("/subjects/%d", id), us, &out, nil); err != nil {
		return Subject{}, err
	}
	s.invalidate()
	return out, nil
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/subjects/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *SubjectService) Members(ctx context.Context, id int) ([]Member, error) {
	var out []Member
	err := s.c.Get(ctx, fmt.Sprintf("/subjects/%d/members", id), &out)
	return out, err
}

func (s *SubjectService) AddMember(ctx context.Context, id int, m Member) error {
	if err := s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/subjects/%d/members", id), m, nil, nil); err != nil {
		return err
	}
	s.c.invalidateEndpoint(fmt.Sprintf("/subjects/%d/members", id))
	return nil
}

func (s *SubjectService) RemoveMember(ctx context.Context, id, userID int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/subjects/%d/members/%d", id, userID), nil, nil, nil); err != nil {
		return err
	}
	s.c.invalidateEndpoint(fmt.Sprintf("/subjects/%d/members", id))
	return nil
}

func (s *SubjectService) invalidate() {
	s.c.invalidateEndpoint(fmt.Sprintf("/faculties/%d/subjects", s.facultyID))
	s.c.invalidateEndpoint("/subjects")
}
