package telegram

import (
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"dlfx/internal/domain/entity"
)

func TestIncomingFileID(t *testing.T) {
	require.Equal(t, "", incomingFileID(&tgbotapi.Message{}))

	msg := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}}
	require.Equal(t, "large", incomingFileID(msg))

	msg.Document = &tgbotapi.Document{FileID: "doc"}
	require.Equal(t, "doc", incomingFileID(msg))
}

func TestDescribeError(t *testing.T) {
	shapeErr := fmt.Errorf("wrap: %w", &entity.UnsupportedShapeError{Shape: []int{2, 2, 4}})
	require.Contains(t, describeError(shapeErr), "channel count: 4")
	require.Equal(t, "⚠️ Пустое изображение.", describeError(entity.ErrEmptyImage))
	require.Equal(t, msgProcessingError, describeError(errors.New("boom")))
}

func TestTagsReply(t *testing.T) {
	require.Equal(t, msgNoTags, tagsReply(nil))

	fields := []entity.MetadataField{{Key: "Modality", Value: "MR"}}
	require.Equal(t, "Modality = MR\n", tagsReply(fields))
}
