package conversation

import (
	"bytes"
	"context"
	"innervoice/app/config"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const maxErrorBody = 64 << 10

func createClient(cfg config.Completion) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &errorBodyClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}

	return openai.NewClientWithConfig(clientConfig)
}

type errorBodyKey struct{}

// errorBody receives the raw body of a failed completion response.
type errorBody struct {
	data []byte
}

func withErrorBody(ctx context.Context) (context.Context, *errorBody) {
	body := &errorBody{}
	return context.WithValue(ctx, errorBodyKey{}, body), body
}

// errorBodyClient copies non-2xx response bodies into the errorBody carried
// by the request context; the openai client only keeps the parsed message.
type errorBodyClient struct {
	client *http.Client
}

func (c *errorBodyClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}

	body, ok := req.Context().Value(errorBodyKey{}).(*errorBody)
	if !ok {
		return resp, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}

	body.data = data
	resp.Body = io.NopCloser(bytes.NewReader(data))

	return resp, nil
}
