package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"github.com/suyashkumar/dicom/pkg/uid"

	app "dlfx/internal/application"
	"dlfx/internal/domain/entity"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestStampCmd(t *testing.T) {
	out := runCmd(t, "stamp", "--created", "2024-01-01", "--author", "Researcher")

	require.Contains(t, out, "* **Created:** 2024-01-01")
	require.Contains(t, out, "* **Researcher:** Researcher")
	require.Contains(t, out, "path not found")
}

func TestAccuracyCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preds.csv")
	csv := "prediction,reference\n1,1\n2,1\n-1,2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out := runCmd(t, "accuracy", path)

	require.Contains(t, out, "Accuracy: 0.5000 (1/2 valid, 3 total)")
	require.Contains(t, out, "1 → 2: 1 times")
}

func TestNormalizeCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	src := image.NewGray16(image.Rect(0, 0, 2, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 1000})
	src.SetGray16(1, 0, color.Gray16{Y: 3000})
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	runCmd(t, "normalize", in, out)

	rf, err := os.Open(out)
	require.NoError(t, err)
	defer rf.Close()
	img, err := png.Decode(rf)
	require.NoError(t, err)

	r0, g0, b0, _ := img.At(0, 0).RGBA()
	r1, _, _, _ := img.At(1, 0).RGBA()
	require.Equal(t, uint32(0), r0>>8)
	require.Equal(t, r0, g0)
	require.Equal(t, r0, b0)
	require.Equal(t, uint32(255), r1>>8)
}

type stubLoader struct {
	arrays map[string]*entity.Array
}

func (l stubLoader) Load(_ context.Context, path string) (*entity.Array, error) {
	arr, ok := l.arrays[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return arr, nil
}

func (l stubLoader) Decode(context.Context, []byte) (*entity.Array, error) {
	return nil, errors.New("not supported")
}

func TestAttachImages_SkipsFailures(t *testing.T) {
	loader := stubLoader{arrays: map[string]*entity.Array{
		"ok.png":       {Shape: []int{1, 2}, Data: []float64{0, 1}},
		"empty.png":    {Shape: []int{0, 0}},
		"mismatch.png": {Shape: []int{2, 2}, Data: []float64{1}},
		"rgba.png":     entity.NewArray(1, 1, 4),
	}}
	messages := []entity.PromptMessage{{
		Role: "user",
		Content: []entity.PromptContent{
			{Type: entity.ContentImage, ImagePath: "empty.png"},
			{Type: entity.ContentImage, ImagePath: "mismatch.png"},
			{Type: entity.ContentImage, ImagePath: "rgba.png"},
			{Type: entity.ContentImage, ImagePath: "missing.png"},
			{Type: entity.ContentImage, ImagePath: "ok.png"},
			{Type: entity.ContentText, Text: "What is shown?"},
		},
	}}

	attachImages(context.Background(), loader, app.NewNormalizer(""), messages)

	content := messages[0].Content
	for _, c := range content[:4] {
		require.Nil(t, c.Image, c.ImagePath)
	}
	require.NotNil(t, content[4].Image)
}

func TestDisplayCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	src := image.NewGray(image.Rect(0, 0, 4, 4))
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	runCmd(t, "display", in, out, "--prediction", "benign", "--label", "malignant", "--cell", "64")

	_, err = os.Stat(out)
	require.NoError(t, err)
}

func newElement(t *testing.T, tg tag.Tag, data any) *dicom.Element {
	t.Helper()
	el, err := dicom.NewElement(tg, data)
	require.NoError(t, err)
	return el
}

func TestTagsCmd_Sequence(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		newElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		newElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4"}),
		newElement(t, tag.TransferSyntaxUID, []string{uid.ImplicitVRLittleEndian}),
		newElement(t, tag.Modality, []string{"CT"}),
		newElement(t, tag.ReferencedImageSequence, [][]*dicom.Element{
			{newElement(t, tag.ReferencedSOPInstanceUID, []string{"1.2.3"})},
			{newElement(t, tag.ReferencedSOPInstanceUID, []string{"1.2.4"})},
		}),
	}}
	path := filepath.Join(t.TempDir(), "study.dcm")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, dicom.Write(f, ds))
	require.NoError(t, f.Close())

	out := runCmd(t, "tags", path, "--sequence", "ReferencedImageSequence")

	require.Contains(t, out, "ReferencedImageSequence[0]:\nReferencedImageSequence[0].ReferencedSOPInstanceUID = 1.2.3\n")
	require.Contains(t, out, "ReferencedImageSequence[1]:\nReferencedImageSequence[1].ReferencedSOPInstanceUID = 1.2.4\n")
	require.NotContains(t, out, "Modality")
}
