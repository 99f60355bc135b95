package request

import "meme_gallery/internal/domain/models"

type AddMemeRequest struct {
	URL    string `json:"url" validate:"required,url"`
	Name   string `json:"name"`
	Source string `json:"source" validate:"omitempty,oneof=link upload"`
}

type ImportRequest struct {
	Memes []models.Meme `json:"memes" validate:"required"`
}

type UpdateTagsRequest struct {
	MemeID float64  `json:"memeId" validate:"required"`
	Tags   []string `json:"tags" validate:"required"`
	Name   string   `json:"name"`
}

type VerifyKeyRequest struct {
	Key string `json:"key" validate:"required"`
}

// UploadRequest несёт файл в base64 без префикса data-URI.
type UploadRequest struct {
	File     string `json:"file" validate:"required"`
	Filename string `json:"filename" validate:"required"`
	Name     string `json:"name"`
	Source   string `json:"source"`
}

// FriendActionRequest — единая форма для add/update/delete.
type FriendActionRequest struct {
	Action string  `json:"action" validate:"required,oneof=add update delete"`
	ID     float64 `json:"id"`
	Name   string  `json:"name"`
	URL    string  `json:"url"`
	Icon   string  `json:"icon"`
}
