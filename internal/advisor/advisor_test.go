package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"goldtracer/internal/domain"
	"goldtracer/internal/service"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

type stubLLMClient struct {
	response *openai.ChatCompletion
	err      error
	params   *openai.ChatCompletionNewParams
}

func (s *stubLLMClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.params = &params
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

type stubSummary struct {
	summary *service.DashboardSummary
	err     error
}

func (s *stubSummary) GetSummary(ctx context.Context) (*service.DashboardSummary, error) {
	return s.summary, s.err
}

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func TestDiagnoseHappyPath(t *testing.T) {
	llm := &stubLLMClient{
		response: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "conditions look supportive"}},
			},
		},
	}
	summary := &stubSummary{summary: &service.DashboardSummary{
		Indicators: []domain.MacroIndicator{
			{Name: domain.IndicatorRealYield, Value: 1.85, IsStale: true},
		},
	}}

	adv := New(testTracer, llm, summary, "gpt-4o-mini")

	reply, err := adv.Diagnose(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "conditions look supportive" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if llm.params.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %s", llm.params.Model)
	}
	if len(llm.params.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(llm.params.Messages))
	}
}

func TestDiagnoseDisabledWithoutClient(t *testing.T) {
	adv := New(testTracer, nil, &stubSummary{}, "gpt-4o-mini")
	if adv.Enabled() {
		t.Fatal("advisor with nil client must be disabled")
	}
	if _, err := adv.Diagnose(context.Background(), ""); err == nil {
		t.Fatal("expected error from disabled advisor")
	}
}

func TestDiagnoseLLMError(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	adv := New(testTracer, llm, &stubSummary{}, "gpt-4o-mini")

	_, err := adv.Diagnose(context.Background(), "what now")
	if err == nil {
		t.Fatal("expected error from LLM failure")
	}
}

func TestDiagnoseSurvivesSummaryFailure(t *testing.T) {
	llm := &stubLLMClient{
		response: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "cannot see market data"}},
			},
		},
	}
	summary := &stubSummary{err: errors.New("db down")}
	adv := New(testTracer, llm, summary, "gpt-4o-mini")

	if _, err := adv.Diagnose(context.Background(), ""); err != nil {
		t.Fatalf("summary failure must degrade, not fail: %v", err)
	}
}

func TestFormatMarketContextFlagsStale(t *testing.T) {
	out := FormatMarketContext(&service.DashboardSummary{
		Indicators: []domain.MacroIndicator{
			{Name: domain.IndicatorRealYield, Value: 1.85, Unit: "%", IsStale: true},
		},
	})
	if !strings.Contains(out, "[stale]") {
		t.Fatalf("stale marker missing: %q", out)
	}
}

func TestFormatMarketContextNil(t *testing.T) {
	if out := FormatMarketContext(nil); out != "No market data currently available." {
		t.Fatalf("unexpected output: %q", out)
	}
}
