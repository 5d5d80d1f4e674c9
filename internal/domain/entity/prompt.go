package entity

import "image"

// Типы содержимого сообщения.
const (
	ContentText  = "text"
	ContentImage = "image"
)

// PromptContent — часть сообщения: текст или изображение.
type PromptContent struct {
	Type      string      `json:"type"`
	Text      string      `json:"text,omitempty"`
	ImagePath string      `json:"image,omitempty"`
	Image     image.Image `json:"-"`
}

// PromptMessage — сообщение диалога для мультимодальной модели.
type PromptMessage struct {
	Role    string          `json:"role"`
	Content []PromptContent `json:"content"`
}
