package dicomfile

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dlfx/internal/domain/entity"
)

// Flatten раскладывает набор данных в плоский список полей.
// PixelData пропускается, элементы последовательностей получают префикс "Key[i].".
func Flatten(ds dicom.Dataset) []entity.MetadataField {
	var fields []entity.MetadataField
	flattenElements(ds.Elements, "", &fields)
	return fields
}

func flattenElements(elements []*dicom.Element, prefix string, out *[]entity.MetadataField) {
	for _, el := range elements {
		if el == nil || el.Tag == tag.PixelData {
			continue
		}
		key := prefix + keyword(el.Tag)

		if el.Value != nil && el.Value.ValueType() == dicom.Sequences {
			items, _ := el.Value.GetValue().([]*dicom.SequenceItemValue)
			for i, item := range items {
				children, _ := item.GetValue().([]*dicom.Element)
				flattenElements(children, fmt.Sprintf("%s[%d].", key, i), out)
			}
			continue
		}

		*out = append(*out, entity.MetadataField{
			Key:   key,
			Tag:   el.Tag.String(),
			VR:    el.RawValueRepresentation,
			Value: scalar(el.Value),
		})
	}
}

// keyword возвращает имя тега из словаря или его номер.
func keyword(t tag.Tag) string {
	if info, err := tag.Find(t); err == nil && info.Name != "" {
		return info.Name
	}
	return t.String()
}

// scalar разворачивает одноэлементные значения.
func scalar(v dicom.Value) any {
	if v == nil {
		return nil
	}
	switch raw := v.GetValue().(type) {
	case []string:
		if len(raw) == 1 {
			return raw[0]
		}
		return raw
	case []int:
		if len(raw) == 1 {
			return raw[0]
		}
		return raw
	case []float64:
		if len(raw) == 1 {
			return raw[0]
		}
		return raw
	default:
		return raw
	}
}
