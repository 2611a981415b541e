package decode

import "github.com/Zuo-Peng/caralog/internal/source"

// Category values as written by the app.
const (
	CategoryStool        = "stool"
	CategoryFood         = "food"
	CategoryMedication   = "medication"
	CategoryMedications2 = "medications2" // legacy alias of medication
	CategorySleep        = "sleep"
	CategorySymptoms     = "additionalSymptoms"
)

// Kind selects the decode path for a resolved log type.
type Kind int

const (
	KindPassthrough Kind = iota
	KindStool
	KindFood
	KindSymptom
	KindMedication
	KindSleep

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindPassthrough:
		return "passthrough"
	case KindStool:
		return "stool"
	case KindFood:
		return "food"
	case KindSymptom:
		return "symptom"
	case KindMedication:
		return "medication"
	case KindSleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// KindOf maps a resolved log type to its decode path. Unmapped types pass through.
func KindOf(logType string) Kind {
	switch logType {
	case CategoryStool:
		return KindStool
	case CategoryFood:
		return KindFood
	case CategorySymptoms:
		return KindSymptom
	case CategoryMedication:
		return KindMedication
	case CategorySleep:
		return KindSleep
	default:
		return KindPassthrough
	}
}

// ResolveLogType rewrites legacy category aliases.
func ResolveLogType(category string) string {
	if category == CategoryMedications2 {
		return CategoryMedication
	}
	return category
}

type decodeFunc func(e *source.Entry, row *Row) error

// decoders is indexed by Kind; every Kind must have an entry.
var decoders = [kindCount]decodeFunc{
	KindPassthrough: decodePassthrough,
	KindStool:       decodeStool,
	KindFood:        decodeFood,
	KindSymptom:     decodeSymptom,
	KindMedication:  decodeMedication,
	KindSleep:       decodeSleep,
}

// Classify decodes one live entry into its normalized row. It is a pure
// function of the entry; any decode failure is returned and no row is built.
func Classify(e *source.Entry) (Row, error) {
	if e.Deleted {
		return Row{}, ErrDeletedEntry
	}

	row := Row{
		LogType: ResolveLogType(e.Category),
		LogText: e.RawText,
		Tags:    NormalizeTags(e.RawTags),
	}
	if e.Timestamp != nil {
		ts := FormatTimestamp(*e.Timestamp)
		row.Timestamp = &ts
	}

	if err := decoders[KindOf(row.LogType)](e, &row); err != nil {
		return Row{}, err
	}
	return row, nil
}

func decodePassthrough(*source.Entry, *Row) error { return nil }

func decodeStool(e *source.Entry, row *Row) error {
	stoolType, err := StoolTypes.Lookup(e.RawValue)
	if err != nil {
		return err
	}
	volume := ResolveVolume(row.Tags)
	row.StoolType = &stoolType
	row.StoolVolume = &volume
	return nil
}

func decodeFood(e *source.Entry, row *Row) error {
	name, tags, err := FlattenMeal(e.MealItems)
	if err != nil {
		return err
	}
	row.LogText = &name
	row.Tags = tags
	return nil
}

func decodeSymptom(e *source.Entry, row *Row) error {
	if row.LogText == nil || !HasSuckScore(*row.LogText) {
		return nil
	}
	ss, err := ParseSuckScore(*row.LogText)
	if err != nil {
		return err
	}
	row.SuckScore = &ss.Score
	if ss.Residual != "" {
		row.LogText = &ss.Residual
	}
	return nil
}

func decodeMedication(e *source.Entry, row *Row) error {
	if row.LogText != nil && *row.LogText != "" {
		return nil
	}
	row.LogText = nil
	if e.MedicationRef != nil {
		row.LogText = e.MedicationRef.Name
	}
	return nil
}

func decodeSleep(e *source.Entry, row *Row) error {
	label, err := SleepDurations.Lookup(e.RawValue)
	if err != nil {
		return err
	}
	row.LogText = &label
	return nil
}
