package speechkit

import (
	"context"
	"encoding/json"
	"innervoice/app/config"
	"os"

	"github.com/samber/do"
	"github.com/samber/oops"
	ycsdk "github.com/yandex-cloud/go-sdk"
	"github.com/yandex-cloud/go-sdk/iamkey"
)

var _ do.Shutdownable = (*YandexSpeechKit)(nil)

type YandexSpeechKit struct {
	sdk   *ycsdk.SDK
	model string
}

func NewClient(di *do.Injector) (*YandexSpeechKit, error) {
	ctx := do.MustInvoke[context.Context](di)
	cfg := do.MustInvoke[*config.Config](di)

	return Dial(ctx, cfg.Speech)
}

func Dial(ctx context.Context, cfg config.Speech) (*YandexSpeechKit, error) {
	errb := oops.In("speechkit").With("key_file", cfg.KeyFile)

	keyBytes, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return nil, errb.Wrapf(err, "could not read service account key")
	}

	var key iamkey.Key
	if err = json.Unmarshal(keyBytes, &key); err != nil {
		return nil, errb.Wrapf(err, "could not parse service account key")
	}

	creds, err := ycsdk.ServiceAccountKey(&key)
	if err != nil {
		return nil, errb.Wrapf(err, "could not create service account credentials")
	}

	sdk, err := ycsdk.Build(ctx, ycsdk.Config{
		Credentials: creds,
	})
	if err != nil {
		return nil, errb.Wrapf(err, "failed to create Yandex SDK")
	}

	return &YandexSpeechKit{
		sdk:   sdk,
		model: cfg.Model,
	}, nil
}

// Start opens a streaming recognition call. Close the handle when done.
func (y *YandexSpeechKit) Start(ctx context.Context) (*Handle, error) {
	ctx, cancel := context.WithCancel(ctx)

	client, err := y.sdk.AI().STTV3().Recognizer().RecognizeStreaming(ctx)
	if err != nil {
		cancel()
		return nil, oops.In("speechkit").Wrapf(err, "failed to open recognition stream")
	}

	return &Handle{
		client: client,
		model:  y.model,
		cancel: cancel,
	}, nil
}

func (y *YandexSpeechKit) Shutdown() error {
	return y.sdk.Shutdown(context.Background())
}
