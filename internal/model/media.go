package model

import "time"

// Media is the descriptor produced by a successful pipeline run and handed to
// the metadata store. It is created exactly once per ingested file and never
// mutated by the pipeline afterward.
//
// Dimensions and Thumbnail are set if and only if Category is "image"; Size is
// the transcoded output size for images, not the original upload size.
type Media struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Category    string    `json:"type"`
	StoragePath string    `json:"path"`
	Size        int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	Dimensions  *string   `json:"dimensions,omitempty"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
