package decode

// CodeTable is a closed mapping from numeric codes to labels. Lookup never
// falls back to a default.
type CodeTable struct {
	name   string
	labels map[float64]string
}

var (
	StoolTypes = CodeTable{
		name: "stool type",
		labels: map[float64]string{
			100: "liquid",
			85:  "mushy",
			71:  "soft-blobs",
			57:  "smooth-log",
			42:  "cracked-log",
			28:  "lumpy-log",
			14:  "hard-lumps",
			0:   "none",
		},
	}

	SleepDurations = CodeTable{
		name: "sleep duration",
		labels: map[float64]string{
			100: ">8",
			75:  "6-8",
			50:  "4-6",
			25:  "2-4",
			0:   "<2",
		},
	}
)

func (t CodeTable) Name() string { return t.name }

// Codes returns the table's domain in no particular order.
func (t CodeTable) Codes() []float64 {
	codes := make([]float64, 0, len(t.labels))
	for c := range t.labels {
		codes = append(codes, c)
	}
	return codes
}

func (t CodeTable) Lookup(value *float64) (string, error) {
	if value == nil {
		return "", &CodeError{Table: t.name}
	}
	label, ok := t.labels[*value]
	if !ok {
		v := *value
		return "", &CodeError{Table: t.name, Value: &v}
	}
	return label, nil
}
