package advisor

import (
	"context"
	"fmt"

	"goldtracer/internal/service"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// SummarySource provides the market snapshot the diagnosis reasons over.
type SummarySource interface {
	GetSummary(ctx context.Context) (*service.DashboardSummary, error)
}

// Advisor turns the current dashboard snapshot into a narrative diagnosis.
// With a nil LLM client it reports itself disabled instead of failing calls.
type Advisor struct {
	tracer  trace.Tracer
	llm     LLMClient
	summary SummarySource
	model   string
}

func New(tracer trace.Tracer, llm LLMClient, summary SummarySource, model string) *Advisor {
	return &Advisor{
		tracer:  tracer,
		llm:     llm,
		summary: summary,
		model:   model,
	}
}

// Enabled reports whether an LLM client is configured.
func (a *Advisor) Enabled() bool {
	return a != nil && a.llm != nil
}

// Diagnose gathers the current snapshot and asks the model for a read on it.
func (a *Advisor) Diagnose(ctx context.Context, question string) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("AI diagnosis disabled: no OpenAI API key configured")
	}

	ctx, span := a.tracer.Start(ctx, "advisor.diagnose")
	defer span.End()

	snapshot, err := a.summary.GetSummary(ctx)
	marketContext := "Market data temporarily unavailable."
	if err == nil {
		marketContext = FormatMarketContext(snapshot)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(BuildSystemPrompt(marketContext)),
	}
	if question == "" {
		question = "Give a concise diagnosis of current gold market conditions."
	}
	messages = append(messages, openai.UserMessage(question))

	span.SetAttributes(
		attribute.String("llm.model", a.model),
		attribute.Int("llm.message_count", len(messages)),
	)

	completion, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("diagnosis unavailable: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	reply := completion.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
