package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates all observer handlers (prompt, model) into one callbacks.Handler.
// defaultModel prices calls whose callback output carries no model name.
func NewAllCallbacks(defaultModel string) einocb.Handler {
	promptHandler := newPromptHandler()
	modelHandler := newModelHandler(defaultModel)

	return callbackHelper.NewHandlerHelper().
		ChatModel(modelHandler).
		Prompt(promptHandler).
		Handler()
}
