package nodelib_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/graphengine/nodelib"
)

func TestLLM_AppendChatMessageNode(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "AppendChatMessageNode")

	out := runDataNode(t, driver, nil, map[string]any{"role": "human", "content": "hi"})
	list := out["message_list"].([]nodelib.ChatMessage)
	assert.Equal(t, []nodelib.ChatMessage{{Role: llms.ChatMessageTypeHuman, Content: "hi"}}, list)

	out = runDataNode(t, driver, nil, map[string]any{
		"message_list": list, "role": "ai", "content": "hello back",
	})
	list = out["message_list"].([]nodelib.ChatMessage)
	assert.Len(t, list, 2)
	assert.Equal(t, llms.ChatMessageTypeAI, list[1].Role)
}

func TestLLM_AppendChatMessageNode_DoesNotMutateInputSlice(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "AppendChatMessageNode")

	original := []nodelib.ChatMessage{{Role: llms.ChatMessageTypeSystem, Content: "sys"}}
	runDataNode(t, driver, nil, map[string]any{"message_list": original, "role": "human", "content": "hi"})

	assert.Len(t, original, 1)
}

func TestLLM_PromptTemplateNode_SubstitutesVariables(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "PromptTemplateNode")

	out := runDataNode(t, driver, nil, map[string]any{
		"template":  "Hello, {{.Name}}!",
		"variables": map[string]any{"Name": "Ada"},
	})
	assert.Equal(t, "Hello, Ada!", out["value"])
}

func TestLLM_PromptTemplateNode_RejectsMalformedTemplate(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "PromptTemplateNode")

	seq, err := driver.Start(context.Background(), nil, map[string]any{"template": "{{.Unterminated"})
	if err != nil {
		return
	}
	_, stepErr := seq.Step(context.Background(), nil)
	assert.Error(t, stepErr)
}
