package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Material struct {
	ID          int       `json:"id"`
	LectureID   int       `json:"lecture_id"`
	UploadID    string    `json:"upload_id"` // client-generated, dedupes retried uploads
	Name        string    `json:"name"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewMaterial struct {
	UploadID    string `json:"upload_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Content     string `json:"content,omitempty"` // base64 payload for small files
}

// MaterialService covers /lectures/{id}/materials and /materials.
type MaterialService struct {
	c         *Client
	lectureID int
}

func (c *Client) Materials(lectureID int) *MaterialService {
	return &MaterialService{c: c, lectureID: lectureID}
}

func (s *MaterialService) List(ctx context.Context) ([]Material, error) {
	var out []Material
	err := s.c.Get(ctx, fmt.Sprintf("/lectures/%d/materials", s.lectureID), &out)
	return out, err
}

// Upload registers a material. The UploadID is filled in client-side when
// empty so the backend can recognize a retried upload of the same file.
func (s *MaterialService) Upload(ctx context.Context, nm NewMaterial) (Material, error) {
	if nm.UploadID == "" {
		nm.UploadID = uuid.New().String()
	}
	var out Material
	if err := s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/lectures/%d/materials", s.lectureID), nm, &out, nil); err != nil {
		return Material{}, err
	}
	s.c.invalidateEndpoint(fmt.Sprintf("/lectures/%d/materials", s.lectureID))
	return out, nil
}

func (s *MaterialService) Delete(ctx context.Context, id int) error {
	if err := s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/materials/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.c.invalidateEndpoint(fmt.Sprintf("/lectures/%d/materials", s.lectureID))
	return nil
}
