package model

// ExtractionResult is the typed view of one oracle extraction. Every field
// is optional; a failed parse yields the zero value, which callers treat
// as "nothing detected".
type ExtractionResult struct {
	Confirmed      *bool
	SwitchDetected *bool
	NewCategory    string
	ExtractedData  map[string]string
}

// IsConfirmed reports an explicit confirmation.
func (r ExtractionResult) IsConfirmed() bool { return r.Confirmed != nil && *r.Confirmed }

// IsEmpty reports whether the oracle gave no usable signal.
func (r ExtractionResult) IsEmpty() bool {
	return r.Confirmed == nil && r.SwitchDetected == nil && r.NewCategory == "" && len(r.ExtractedData) == 0
}
