package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Lecture struct {
	ID        int       `json:"id"`
	SubjectID int       `json:"subject_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewLecture struct {
	Title    string `json:"title"`
	Position int    `json:"position,omitempty"`
}

// LectureNote is the markdown body attached to a lecture; edited and saved
// as a whole.
type LectureNote struct {
	LectureID int       `json:"lecture_id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LectureService covers /subjects/{id}/lectures and /lectures.
type LectureService struct {
	c         *Client
	subjectID int
}

func (c *Client) Lectures(subjectID int) *LectureService {
	return &LectureService{c: c, subjectID: subjectID}
}

func (s *LectureService) List(ctx context.Context) ([]Lecture, error) {
	var out []Lecture
	err := s.c.Get(ctx, fmt.Sprintf("/subjects/%d/lectures", s.subjectID), &out)
	return out, err
}

func (s *LectureService) Get(ctx context.Context, id int) (Lecture, error) {
	var out Lecture
	err := s.c.Get(ctx, fmt.Sprintf("/lectures/%d", id), &out)
	return out, err
}

func (s *LectureService) Create(ctx context.Context, nl NewLecture) (Lecture, error) {
	var out Lecture
	if err := s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/subjects/%d/lectures", s.subjectID), nl, &out, nil); err != nil {
		return Lecture{}, err
	}
	s.invalidate()
	return out, nil
}

func (s *LectureService) Update(ctx context.Context, id int, ul NewLecture) (Lecture, error) {
	var out Lecture
	if err := s.c.Do(ctx, http.MethodPatch, fmt.Sprintf("/lectures/%d", id), ul, &out, nil); err != nil {
		return Lecture{}, err
	}
	s.invalidate()
	return out, nil
}

func (s *LectureService) Delete(ctx context.Context, id int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/lectures/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Note fetches the lecture's note body. Notes change while being edited, so
// the read always bypasses the cache.
func (s *LectureService) Note(ctx context.Context, id int) (LectureNote, error) {
	var out LectureNote
	err := s.c.Do(ctx, http.MethodGet, fmt.Sprintf("/lectures/%d/note", id), nil, &out, &ReqOptions{SkipCache: true})
	return out, err
}

func (s *LectureService) SaveNote(ctx context.Context, id int, content string) (LectureNote, error) {
	body := struct {
		Content string `json:"content"`
	}{content}
	var out LectureNote
	if err := s.c.Do(ctx, http.MethodPatch, fmt.Sprintf("/lectures/%d/note", id), body, &out, nil); err != nil {
		return LectureNote{}, err
	}
	s.c.invalidateEndpoint(fmt.Sprintf("/lectures/%d", id))
	return out, nil
}

func (s *LectureService) invalidate() {
	s.c.invalidateEndpoint(fmt.Sprintf("/subjects/%d/lectures", s.subjectID))
	s.c.invalidateEndpoint("/lectures")
}
