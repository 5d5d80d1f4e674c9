package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"strings"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

// PreviewService обслуживает запросы бота: нормализация присланного изображения
// и чтение тегов DICOM.
type PreviewService struct {
	users    *UserService
	loader   port.ImageLoader
	metadata *MetadataService
	rounding entity.RoundingMode
}

// PreviewOutput содержит нормализованное изображение в PNG и форму исходника.
type PreviewOutput struct {
	SourceShape []int
	Rounding    entity.RoundingMode
	PNG         []byte
}

// NewPreviewService создаёт сервис предпросмотра. rounding используется для
// пользователей, не выбравших режим сами.
func NewPreviewService(users *UserService, loader port.ImageLoader, metadata *MetadataService, rounding entity.RoundingMode) *PreviewService {
	if rounding == "" {
		rounding = entity.RoundTruncate
	}
	return &PreviewService{
		users:    users,
		loader:   loader,
		metadata: metadata,
		rounding: rounding,
	}
}

// Normalize декодирует файл, нормализует его с режимом округления пользователя
// и возвращает пользователя в главное меню.
func (s *PreviewService) Normalize(ctx context.Context, userID, chatID int64, data []byte) (out *PreviewOutput, err error) {
	if s.loader == nil {
		return nil, errors.New("image loader is not configured")
	}
	user, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing)
	if err != nil {
		return nil, err
	}
	defer func() { s.done(ctx, userID, chatID, err) }()

	rounding := user.Rounding
	if rounding == "" {
		rounding = s.rounding
	}

	arr, err := s.loader.Decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img, err := NewNormalizer(rounding).Normalize(arr)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &PreviewOutput{
		SourceShape: arr.Shape,
		Rounding:    rounding,
		PNG:         buf.Bytes(),
	}, nil
}

// Tags читает метаданные DICOM и возвращает пользователя в главное меню.
func (s *PreviewService) Tags(ctx context.Context, userID, chatID int64, data []byte) (fields []entity.MetadataField, err error) {
	if s.metadata == nil {
		return nil, errors.New("metadata reader is not configured")
	}
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}
	defer func() { s.done(ctx, userID, chatID, err) }()

	return s.metadata.Describe(ctx, data)
}

// done возвращает пользователя в меню; счётчик растёт только после успешной обработки.
func (s *PreviewService) done(ctx context.Context, userID, chatID int64, err error) {
	var updateErr error
	if err != nil {
		_, updateErr = s.users.Cancel(ctx, userID, chatID)
	} else {
		_, updateErr = s.users.Finish(ctx, userID, chatID)
	}
	if updateErr != nil {
		log.Printf("Error updating user %d: %v", userID, updateErr)
	}
}

// FormatFields печатает теги строками "Key = Value", не длиннее limit байт.
func FormatFields(fields []entity.MetadataField, limit int) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s = %v", f.Key, f.Value))
	}

	var b strings.Builder
	for _, line := range lines {
		if limit > 0 && b.Len()+len(line)+len("…")+1 > limit {
			b.WriteString("…")
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
