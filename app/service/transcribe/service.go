package transcribe

import (
	"context"
	"errors"
	"fmt"
	"innervoice/app/client/speechkit"
	"innervoice/app/config"
	"innervoice/app/service/speech"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/do"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

const bufferSize = 4096

var (
	ErrDisabled = errors.New("voice input is not configured")
	ErrNoSpeech = errors.New("no speech recognized")
)

type Stream interface {
	SendConfig(languageCode string) error
	Send(chunk []byte) error
	CloseSend() error
	Recv() (string, error)
	Close() error
}

type Recognizer interface {
	Open(ctx context.Context) (Stream, error)
}

type yandexRecognizer struct {
	client *speechkit.YandexSpeechKit
}

func (r yandexRecognizer) Open(ctx context.Context) (Stream, error) {
	handle, err := r.client.Start(ctx)
	if err != nil {
		return nil, err
	}

	return handle, nil
}

// Service turns uploaded user audio into message text. Without a
// recognizer every call fails with ErrDisabled.
type Service struct {
	recognizer Recognizer
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.Speech.KeyFile == "" {
		slog.Info("Voice input disabled, speech.key_file is not set")
		return NewService(nil), nil
	}

	client, err := do.Invoke[*speechkit.YandexSpeechKit](di)
	if err != nil {
		return nil, err
	}

	return NewService(yandexRecognizer{client: client}), nil
}

func NewService(recognizer Recognizer) *Service {
	return &Service{recognizer: recognizer}
}

func (s *Service) Enabled() bool {
	return s.recognizer != nil
}

// Transcribe streams mono 16kHz LINEAR16 PCM from audio and joins the
// final phrases.
func (s *Service) Transcribe(ctx context.Context, audio io.Reader, lang string) (string, error) {
	if s.recognizer == nil {
		return "", ErrDisabled
	}

	errb := oops.In("transcribe").With("lang", speech.Tag(lang))

	// a failed sender cancels the stream and unblocks Recv
	g, ctx := errgroup.WithContext(ctx)

	stream, err := s.recognizer.Open(ctx)
	if err != nil {
		return "", errb.Wrapf(err, "failed to start transcription")
	}
	defer stream.Close()

	var phrases []string

	g.Go(func() error {
		return streamAudio(ctx, audio, stream, speech.Tag(lang))
	})

	g.Go(func() error {
		return receivePhrases(ctx, stream, func(text string) {
			phrases = append(phrases, text)
		})
	})

	if err = g.Wait(); err != nil {
		return "", errb.Wrapf(err, "transcription failed")
	}

	text := strings.TrimSpace(strings.Join(phrases, " "))
	if text == "" {
		return "", ErrNoSpeech
	}

	return text, nil
}

func streamAudio(ctx context.Context, audio io.Reader, stream Stream, languageCode string) error {
	if err := stream.SendConfig(languageCode); err != nil {
		return fmt.Errorf("failed to send audio config: %w", err)
	}

	buffer := make([]byte, bufferSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := audio.Read(buffer)
		if n > 0 {
			if sendErr := stream.Send(buffer[:n]); sendErr != nil {
				return fmt.Errorf("failed to send audio: %w", sendErr)
			}
		}

		if errors.Is(err, io.EOF) {
			return stream.CloseSend()
		}
		if err != nil {
			return fmt.Errorf("failed to read audio: %w", err)
		}
	}
}

func receivePhrases(ctx context.Context, stream Stream, onPhrase func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		text, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if text != "" {
			onPhrase(text)
		}
	}
}
