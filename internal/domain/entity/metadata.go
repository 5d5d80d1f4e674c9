package entity

// MetadataField — один тег DICOM после «сплющивания» вложенных последовательностей.
type MetadataField struct {
	Key   string // например PatientName или ReferencedImageSequence[0].ReferencedSOPInstanceUID
	Tag   string // (gggg,eeee)
	VR    string
	Value any
}

// MetadataMap собирает поля в map по ключу.
func MetadataMap(fields []MetadataField) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
