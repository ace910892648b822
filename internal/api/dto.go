package api

import "github.com/samcharles93/effblob/pkg/eff"

type BlobResponse struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Order     string    `json:"order"`
	Size      int       `json:"size"`
	CreatedAt int64     `json:"created_at"`
	Stats     eff.Stats `json:"stats"`
}

type BlobListResponse struct {
	Object string         `json:"object"`
	Data   []BlobResponse `json:"data"`
}

type DeleteBlobResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
