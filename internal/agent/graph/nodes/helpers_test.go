package nodes

import (
	"context"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
)

type fakeExtractor struct {
	confirm func(userText, category string) (model.ExtractionResult, error)
	extract func(userText, category string, fields []string) (model.ExtractionResult, error)

	confirmCalls int
	extractCalls int
	lastFields   []string
}

func (f *fakeExtractor) CheckConfirmation(_ context.Context, userText, category string) (model.ExtractionResult, error) {
	f.confirmCalls++
	if f.confirm == nil {
		return model.ExtractionResult{}, nil
	}
	return f.confirm(userText, category)
}

func (f *fakeExtractor) ClassifyAndExtract(_ context.Context, userText, category string, fields []string) (model.ExtractionResult, error) {
	f.extractCalls++
	f.lastFields = fields
	if f.extract == nil {
		return model.ExtractionResult{}, nil
	}
	return f.extract(userText, category, fields)
}

func stateWith(user string, p model.Patch) model.DialogueState {
	s := model.NewDialogueState()
	s.Messages = append(s.Messages, model.UserMessage(user))
	return s.Apply(p)
}

func extracted(newCategory string, data map[string]string) func(string, string, []string) (model.ExtractionResult, error) {
	return func(string, string, []string) (model.ExtractionResult, error) {
		return model.ExtractionResult{NewCategory: newCategory, ExtractedData: data}, nil
	}
}
