package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// PlanDone marks that a recommendation was issued for the current category.
const PlanDone = "Done"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user-authored message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// AskedField tags what the previous assistant turn requested from the user.
type AskedField string

const (
	AskedNothing              AskedField = ""
	AskedCategory             AskedField = "category"
	AskedCategoryConfirmation AskedField = "category_confirmation"
	AskedBulkQuestions        AskedField = "bulk_questions"
)

// Stage names the next stage the dialogue graph runs.
type Stage int

const (
	StageNone Stage = iota
	StageRouter
	StageCollector
	StageAnalyst
	StageSales
)

var stageNames = map[Stage]string{
	StageNone:      "",
	StageRouter:    "router",
	StageCollector: "collector",
	StageAnalyst:   "analyst",
	StageSales:     "sales",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseStage maps a node name back to its Stage.
func ParseStage(name string) (Stage, error) {
	for st, n := range stageNames {
		if n == name {
			return st, nil
		}
	}
	return StageNone, fmt.Errorf("unknown stage %q", name)
}

func (s Stage) MarshalText() ([]byte, error) {
	if _, ok := stageNames[s]; !ok {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	st, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// DialogueState is the structured record carried across turns of one
// conversation. Values are treated as immutable within a turn: stages
// return a Patch and the caller derives the next state with Apply.
type DialogueState struct {
	Messages          []Message         `json:"messages"`
	CurrentCategory   string            `json:"current_category,omitempty"`
	CategoryConfirmed bool              `json:"category_confirmed"`
	CollectedData     map[string]string `json:"collected_data"`
	MissingFields     []string          `json:"missing_fields,omitempty"`
	LastAskedField    AskedField        `json:"last_asked_field,omitempty"`
	RecommendedPlan   string            `json:"recommended_plan,omitempty"`
	PolicyContext     *string           `json:"policy_context"`
	LogicContext      *string           `json:"logic_context"`
	NextStep          Stage             `json:"-"`
}

// NewDialogueState returns an empty state ready for the first turn.
func NewDialogueState() DialogueState {
	return DialogueState{CollectedData: map[string]string{}}
}

// LastUserMessage returns the newest user-authored text, or "".
func (s DialogueState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// HasRecommendation reports whether a recommendation was already issued.
func (s DialogueState) HasRecommendation() bool { return s.RecommendedPlan == PlanDone }

// Clone returns a deep copy so a patch never aliases the previous state.
func (s DialogueState) Clone() DialogueState {
	out := s
	out.Messages = slices.Clone(s.Messages)
	out.MissingFields = slices.Clone(s.MissingFields)
	out.CollectedData = maps.Clone(s.CollectedData)
	if out.CollectedData == nil {
		out.CollectedData = map[string]string{}
	}
	if s.PolicyContext != nil {
		v := *s.PolicyContext
		out.PolicyContext = &v
	}
	if s.LogicContext != nil {
		v := *s.LogicContext
		out.LogicContext = &v
	}
	return out
}

// Apply returns the state produced by merging p into a copy of s.
func (s DialogueState) Apply(p Patch) DialogueState {
	out := s.Clone()
	out.Messages = append(out.Messages, p.Messages...)
	p.CurrentCategory.apply(&out.CurrentCategory)
	p.CategoryConfirmed.apply(&out.CategoryConfirmed)
	if v, ok := p.CollectedData.Get(); ok {
		out.CollectedData = NormalizeProfile(v)
	}
	if v, ok := p.MissingFields.Get(); ok {
		out.MissingFields = slices.Clone(v)
	}
	p.LastAskedField.apply(&out.LastAskedField)
	p.RecommendedPlan.apply(&out.RecommendedPlan)
	p.PolicyContext.apply(&out.PolicyContext)
	p.LogicContext.apply(&out.LogicContext)
	p.NextStep.apply(&out.NextStep)
	if out.CurrentCategory == "" {
		out.CategoryConfirmed = false
	}
	return out
}

// MarshalJSON keeps collected_data present even when empty.
func (s DialogueState) MarshalJSON() ([]byte, error) {
	type alias DialogueState
	a := alias(s)
	if a.CollectedData == nil {
		a.CollectedData = map[string]string{}
	}
	return json.Marshal(a)
}

// NormalizeProfile lower-cases keys and drops blank values.
func NormalizeProfile(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out
}

// MergeProfile overlays extracted values on the collected profile. Keys are
// lower-cased, blank values are dropped, other existing keys are preserved.
func MergeProfile(collected, extracted map[string]string) map[string]string {
	out := NormalizeProfile(collected)
	maps.Copy(out, NormalizeProfile(extracted))
	return out
}

// MissingFrom returns the required fields that have no non-blank value in profile.
func MissingFrom(required []string, profile map[string]string) []string {
	missing := make([]string, 0, len(required))
	for _, f := range required {
		if strings.TrimSpace(profile[strings.ToLower(f)]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
