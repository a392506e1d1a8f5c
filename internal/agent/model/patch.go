package model

// Field is one optional slot of a Patch. A zero Field leaves the target
// untouched; a set Field overwrites it, including with the zero value.
type Field[T any] struct {
	set   bool
	value T
}

// Set returns a Field that writes v.
func Set[T any](v T) Field[T] { return Field[T]{set: true, value: v} }

// Get returns the value and whether the Field is set.
func (f Field[T]) Get() (T, bool) { return f.value, f.set }

// IsSet reports whether the Field writes its target.
func (f Field[T]) IsSet() bool { return f.set }

func (f Field[T]) apply(dst *T) {
	if f.set {
		*dst = f.value
	}
}

// Patch is the partial diff a stage returns. Messages are appended, every
// other set field replaces the state's value.
type Patch struct {
	Messages          []Message
	CurrentCategory   Field[string]
	CategoryConfirmed Field[bool]
	CollectedData     Field[map[string]string]
	MissingFields     Field[[]string]
	LastAskedField    Field[AskedField]
	RecommendedPlan   Field[string]
	PolicyContext     Field[*string]
	LogicContext      Field[*string]
	NextStep          Field[Stage]
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Messages) == 0 &&
		!p.CurrentCategory.set && !p.CategoryConfirmed.set && !p.CollectedData.set &&
		!p.MissingFields.set && !p.LastAskedField.set && !p.RecommendedPlan.set &&
		!p.PolicyContext.set && !p.LogicContext.set && !p.NextStep.set
}

// SwitchCategory is the full reset applied when the user moves to another
// category: only the newly extracted data survives.
func SwitchCategory(category string, extracted map[string]string) Patch {
	return Patch{
		CurrentCategory:   Set(category),
		CategoryConfirmed: Set(false),
		CollectedData:     Set(NormalizeProfile(extracted)),
		MissingFields:     Set([]string(nil)),
		LastAskedField:    Set(AskedNothing),
		RecommendedPlan:   Set(""),
		PolicyContext:     Set[*string](nil),
		LogicContext:      Set[*string](nil),
		NextStep:          Set(StageCollector),
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
