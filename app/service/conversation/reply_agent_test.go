package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"innervoice/app/config"
	"innervoice/app/service/memory"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path          string
	Authorization string
	Body          struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		Messages    []Turn  `json:"messages"`
	}
}

func newTestAgent(t *testing.T, handler http.HandlerFunc) *ReplyAgent {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewReplyAgent(config.Completion{
		BaseURL:     srv.URL + "/openai/v1",
		Token:       "gsk_test",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.7,
		Timeout:     2 * time.Second,
	}, memory.NewExtractor(memory.DefaultRules), nil)
}

func replyWith(content string, captured *capturedRequest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.Path = r.URL.Path
			captured.Authorization = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&captured.Body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":` +
			mustJSON(content) + `},"finish_reason":"stop"}]}`))
	}
}

func mustJSON(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func TestCallBuildsPayload(t *testing.T) {
	var captured capturedRequest
	agent := newTestAgent(t, replyWith("That’s amazing!", &captured))

	mem := memory.NewStore()
	turns := []Turn{
		{Role: RoleAssistant, Content: "Hello! How are you feeling today?"},
		{Role: RoleUser, Content: "   "},
		{Role: RoleUser, Content: "I scored 92% in boards"},
	}

	reply, err := agent.Call(context.Background(), mem, turns, "hi", false)
	require.NoError(t, err)
	assert.Equal(t, "That’s amazing!", reply)

	assert.Equal(t, "/openai/v1/chat/completions", captured.Path)
	assert.Equal(t, "Bearer gsk_test", captured.Authorization)
	assert.Equal(t, "llama-3.3-70b-versatile", captured.Body.Model)
	assert.InDelta(t, 0.7, captured.Body.Temperature, 0.0001)

	require.Len(t, captured.Body.Messages, 3)
	system := captured.Body.Messages[0]
	assert.Equal(t, RoleSystem, system.Role)
	assert.Contains(t, system.Content, "- Academic Score: 92%")
	assert.Contains(t, system.Content, "Reply in Hindi")
	assert.Equal(t, turns[0], captured.Body.Messages[1])
	assert.Equal(t, turns[2], captured.Body.Messages[2])
}

func TestCallPromptReflectsNewAndOldFacts(t *testing.T) {
	var captured capturedRequest
	agent := newTestAgent(t, replyWith("ok", &captured))

	mem := memory.NewStore()
	mem.Set(memory.Identity, "a student")

	_, err := agent.Call(context.Background(), mem, []Turn{
		{Role: RoleUser, Content: "I want to become a teacher"},
	}, DefaultLanguage, false)
	require.NoError(t, err)

	system := captured.Body.Messages[0].Content
	assert.Contains(t, system, "- Identity: a student")
	assert.Contains(t, system, "- Goal: teacher")
	assert.NotContains(t, system, "IMPORTANT")
}

func TestCallResetSkipsExtraction(t *testing.T) {
	agent := newTestAgent(t, replyWith("hi", nil))

	mem := memory.NewStore()
	_, err := agent.Call(context.Background(), mem, []Turn{
		{Role: RoleUser, Content: "I am worried"},
	}, DefaultLanguage, true)
	require.NoError(t, err)

	assert.Zero(t, mem.Len())
}

func TestCallServiceErrorKeepsLearnedFacts(t *testing.T) {
	agent := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached","type":"tokens"}}`))
	})

	mem := memory.NewStore()
	mem.Set(memory.Identity, "a student")

	_, err := agent.Call(context.Background(), mem, []Turn{
		{Role: RoleUser, Content: "I want to become a doctor"},
	}, DefaultLanguage, false)

	var serviceErr *ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, http.StatusTooManyRequests, serviceErr.StatusCode)
	assert.JSONEq(t, `{"error":{"message":"rate limit reached","type":"tokens"}}`, serviceErr.Body)
	assert.Equal(t, "status", serviceErr.Kind())

	value, ok := mem.Get(memory.Identity)
	require.True(t, ok)
	assert.Equal(t, "a student", value)

	value, ok = mem.Get(memory.Goal)
	require.True(t, ok)
	assert.Equal(t, "doctor", value)
}

func TestCallServiceErrorPlainBody(t *testing.T) {
	agent := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := agent.Call(context.Background(), memory.NewStore(), []Turn{
		{Role: RoleUser, Content: "hello"},
	}, DefaultLanguage, false)

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, http.StatusBadGateway, serviceErr.StatusCode)
	assert.Contains(t, serviceErr.Body, "upstream down")
}

func TestCallTimeoutIsServiceError(t *testing.T) {
	agent := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	agent.timeout = 50 * time.Millisecond

	_, err := agent.Call(context.Background(), memory.NewStore(), []Turn{
		{Role: RoleUser, Content: "hello"},
	}, DefaultLanguage, false)

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.True(t, serviceErr.Timeout)
}

func TestCallMissingChoicesFallsBack(t *testing.T) {
	agent := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[]}`))
	})

	reply, err := agent.Call(context.Background(), memory.NewStore(), []Turn{
		{Role: RoleUser, Content: "hello"},
	}, DefaultLanguage, false)
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestCallEmptyContentFallsBack(t *testing.T) {
	agent := newTestAgent(t, replyWith("", nil))

	reply, err := agent.Call(context.Background(), memory.NewStore(), []Turn{
		{Role: RoleUser, Content: "hello"},
	}, DefaultLanguage, false)
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}
