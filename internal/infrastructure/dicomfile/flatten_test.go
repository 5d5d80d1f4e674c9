package dicomfile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dlfx/internal/domain/entity"
)

func TestFlatten_NamesSequencesAndSkipsPixelData(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(tag.PatientName, []string{"Doe^Jane"}),
		mustElement(tag.Rows, []int{512}),
		mustElement(tag.PixelSpacing, []string{"0.5", "0.5"}),
		mustElement(tag.ReferencedImageSequence, [][]*dicom.Element{
			{mustElement(tag.ReferencedSOPInstanceUID, []string{"1.2.3"})},
			{mustElement(tag.ReferencedSOPInstanceUID, []string{"1.2.4"})},
		}),
		mustElement(tag.PixelData, dicom.PixelDataInfo{IntentionallySkipped: true}),
	}}

	fields := Flatten(ds)
	values := entity.MetadataMap(fields)

	require.Equal(t, "Doe^Jane", values["PatientName"])
	require.Equal(t, 512, values["Rows"])
	require.Equal(t, []string{"0.5", "0.5"}, values["PixelSpacing"])
	require.Equal(t, "1.2.3", values["ReferencedImageSequence[0].ReferencedSOPInstanceUID"])
	require.Equal(t, "1.2.4", values["ReferencedImageSequence[1].ReferencedSOPInstanceUID"])
	require.NotContains(t, values, "PixelData")
	require.Len(t, fields, 5)
	require.Equal(t, "PatientName", fields[0].Key)
}

func TestFlatten_UnknownTagUsesNumber(t *testing.T) {
	private := tag.Tag{Group: 0x0009, Element: 0x0010}
	el := &dicom.Element{
		Tag:                    private,
		RawValueRepresentation: "LO",
		Value:                  mustValue(t, []string{"vendor"}),
	}

	fields := Flatten(dicom.Dataset{Elements: []*dicom.Element{el}})
	require.Len(t, fields, 1)
	require.Equal(t, private.String(), fields[0].Key)
	require.Equal(t, "vendor", fields[0].Value)
}

func TestReader_RejectsNonDICOM(t *testing.T) {
	_, err := NewReader().Read(context.Background(), []byte("plain text"))
	require.Error(t, err)

	_, err = NewReader().Decode(context.Background(), []byte("plain text"))
	require.Error(t, err)
}

func mustValue(t *testing.T, data any) dicom.Value {
	t.Helper()
	v, err := dicom.NewValue(data)
	require.NoError(t, err)
	return v
}

func mustElement(t tag.Tag, data any) *dicom.Element {
	el, err := dicom.NewElement(t, data)
	if err != nil {
		panic(err)
	}
	return el
}
