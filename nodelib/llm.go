package nodelib

import (
	"bytes"
	"context"
	"errors"
	"io"
	"text/template"

	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/graphengine/graph"
)

// ChatMessage is a thin role/content pair built on langchaingo's message
// vocabulary instead of a parallel one of its own.
type ChatMessage struct {
	Role    llms.ChatMessageType
	Content string
}

// RegisterLLM adds AppendChatMessageNode, PromptTemplateNode and
// ChatCompletionNode.
func RegisterLLM(reg *graph.Registry) error {
	if err := reg.Register("AppendChatMessageNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			list, _ := in["message_list"].([]ChatMessage)
			role, _ := in["role"].(string)
			content, _ := in["content"].(string)
			out := make([]ChatMessage, len(list), len(list)+1)
			copy(out, list)
			out = append(out, ChatMessage{Role: llms.ChatMessageType(role), Content: content})
			return map[string]any{"message_list": out}, nil
		})
	}, graph.Metadata{
		Title: "AppendChatMessageNode", Category: "llm",
		Inputs:  []graph.PortSpec{{Name: "message_list"}, {Name: "role"}, {Name: "content"}},
		Outputs: []graph.PortSpec{{Name: "message_list"}},
	}); err != nil {
		return err
	}

	// PromptTemplateNode uses text/template's {{.Field}} syntax and
	// rejects unknown variables instead of leaving them in the output
	// unsubstituted.
	if err := reg.Register("PromptTemplateNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			tmplText, _ := in["template"].(string)
			vars, _ := in["variables"].(map[string]any)
			tmpl, err := template.New("prompt").Option("missingkey=error").Parse(tmplText)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, vars); err != nil {
				return nil, err
			}
			return map[string]any{"value": buf.String()}, nil
		})
	}, graph.Metadata{
		Title: "PromptTemplateNode", Category: "llm",
		Inputs:  []graph.PortSpec{{Name: "template"}, {Name: "variables"}},
		Outputs: valuePort(),
	}); err != nil {
		return err
	}

	if err := reg.Register("ChatCompletionNode", func() graph.NodeDriver {
		return graph.Producer(chatCompletionProducer)
	}, graph.Metadata{
		Title: "ChatCompletionNode", Category: "llm", Execution: "triggered",
		Inputs: []graph.PortSpec{
			{Name: "api_key"}, {Name: "base_url"}, {Name: "model"},
			{Name: "messages"}, {Name: "temperature"}, {Name: "max_tokens"},
		},
		Outputs: []graph.PortSpec{{Name: "content_part"}, {Name: "role"}, {Name: "content"}},
		Display: []graph.PortSpec{{Name: "on_content_part"}},
	}); err != nil {
		return err
	}

	return nil
}

// chatCompletionProducer streams a chat completion via go-openai, yielding
// one NodeOutput per content chunk on the "on_content_part" pin (also
// sending a display/append progress event per chunk) and a final
// fall-through yield carrying the full accumulated role and content.
func chatCompletionProducer(ctx context.Context, ctrl graph.Controller, in map[string]any, yield graph.Yielder) error {
	apiKey, _ := in["api_key"].(string)
	baseURL, _ := in["base_url"].(string)
	model, _ := in["model"].(string)
	messages, _ := in["messages"].([]ChatMessage)
	temperature := float32(0)
	if t, ok := in["temperature"].(float64); ok {
		temperature = float32(t)
	}
	maxTokens := asInt(in["max_tokens"], 0)

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      true,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	stream, err := client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	var role, content string
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		if delta.Role != "" {
			role = delta.Role
		}
		if delta.Content != "" {
			content += delta.Content
			ctrl.SendEvent(graph.EventAppend, map[string]any{"value": delta.Content})
			yield.Output("on_content_part", map[string]any{"content_part": delta.Content})
		}
	}

	yield.Output("_", map[string]any{"role": role, "content": content})
	return nil
}
