package conversation

import (
	"context"
	"innervoice/app/config"
	"innervoice/app/service/memory"
	"innervoice/app/service/metrics"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const FallbackReply = "Sorry, I couldn't generate a response."

type Recorder interface {
	ObserveCompletion(duration time.Duration, outcome string)
	IncFact(category string)
}

type ReplyAgent struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration

	extractor *memory.Extractor
	recorder  Recorder
}

func New(di *do.Injector) (*ReplyAgent, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewReplyAgent(
		cfg.Completion,
		memory.NewExtractor(memory.DefaultRules),
		do.MustInvoke[*metrics.Service](di),
	), nil
}

func NewReplyAgent(cfg config.Completion, extractor *memory.Extractor, recorder Recorder) *ReplyAgent {
	return &ReplyAgent{
		client:      createClient(cfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		extractor:   extractor,
		recorder:    recorder,
	}
}

// Call learns facts from the newest user turn (unless reset is set), then
// asks the completion endpoint for the next assistant reply. Facts learned
// here stay in mem even when the request fails.
func (a *ReplyAgent) Call(ctx context.Context, mem *memory.Store, turns []Turn, language string, reset bool) (string, error) {
	if !reset {
		a.learn(mem, turns)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: ComposePrompt(mem.Format(), language),
		},
	}
	for _, turn := range nonBlank(turns) {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ctx, rawBody := withErrorBody(ctx)

	start := time.Now()
	aiResponse, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       a.model,
			Messages:    messages,
			Temperature: a.temperature,
		},
	)
	if err != nil {
		serviceErr := toServiceError(err, rawBody.data)
		a.observe(start, serviceErr.Kind())

		slog.ErrorContext(ctx, "Completion request failed",
			"status", serviceErr.StatusCode,
			"body", serviceErr.Body,
			"kind", serviceErr.Kind(),
			"error", err,
		)

		return "", serviceErr
	}
	a.observe(start, "ok")

	if len(aiResponse.Choices) == 0 || strings.TrimSpace(aiResponse.Choices[0].Message.Content) == "" {
		slog.WarnContext(ctx, "Completion response has no content, using fallback",
			"choices", len(aiResponse.Choices),
		)
		return FallbackReply, nil
	}

	return aiResponse.Choices[0].Message.Content, nil
}

func (a *ReplyAgent) learn(mem *memory.Store, turns []Turn) {
	text, ok := lastUserContent(turns)
	if !ok || text == "" {
		return
	}

	ext := a.extractor.Extract(text)
	mem.Apply(ext)

	if ext.Reset {
		slog.Info("Memory cleared on user request")
		return
	}

	for _, fact := range ext.Facts {
		if a.recorder != nil {
			a.recorder.IncFact(string(fact.Category))
		}
		slog.Debug("Learned fact", "category", fact.Category)
	}
}

func (a *ReplyAgent) observe(start time.Time, outcome string) {
	if a.recorder != nil {
		a.recorder.ObserveCompletion(time.Since(start), outcome)
	}
}
