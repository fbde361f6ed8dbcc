package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talentwire/cvscan/internal/profile"
	"github.com/talentwire/cvscan/internal/prompt"
	"github.com/talentwire/cvscan/internal/providers"
	"github.com/talentwire/cvscan/internal/schema"
)

const (
	// maxCorrections bounds the repair loop: one correction, never more.
	maxCorrections = 1

	// correctionTemperature pins the retry close to deterministic.
	correctionTemperature = 0.1

	defaultTemperature = 0.2
	defaultMaxTokens   = 4000
	defaultTimeout     = 120 * time.Second
)

// Extractor runs one document through the prompt/call/validate/derive
// pipeline. It is safe for concurrent use.
type Extractor struct {
	client  providers.LLMClient
	schema  *schema.Compiled
	profile *profile.Profile
	rule    DerivedRule
	logger  *slog.Logger

	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// Options configures an Extractor. Zero values select defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Rule        *DerivedRule
	Logger      *slog.Logger
}

// New builds an Extractor over the given client, schema and profile.
func New(client providers.LLMClient, cs *schema.Compiled, p *profile.Profile, opts Options) *Extractor {
	if opts.Temperature <= 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	rule := DefaultDerivedRule()
	if opts.Rule != nil {
		rule = *opts.Rule
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		client:      client,
		schema:      cs,
		profile:     p,
		rule:        rule,
		logger:      logger,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
	}
}

// Outcome is the result of one successful extraction.
type Outcome struct {
	Record      Record
	Preapproved bool
	Attempts    int
	TotalTokens int
	Model       string
}

// ExtractOne analyzes one document's text. A parse or validation failure is
// retried exactly once with a correction addendum appended to the original
// prompt; transport failures propagate immediately without burning the
// correction attempt.
func (e *Extractor) ExtractOne(ctx context.Context, text string) (*Outcome, error) {
	system, user := prompt.Compose(text, e.schema, e.profile)

	result, err := e.chat(ctx, system, user, e.temperature)
	if err != nil {
		return nil, err
	}

	attempts := 1
	tokens := result.TotalTokens
	model := result.ModelUsed

	rec, vErr := e.parseAndValidate(result.Content)
	for i := 0; vErr != nil && i < maxCorrections; i++ {
		e.logger.Debug("response rejected, sending correction",
			"error", vErr,
			"attempt", attempts)

		corrected := user + prompt.CorrectionAddendum(result.Content, vErr)
		result, err = e.chat(ctx, system, corrected, correctionTemperature)
		if err != nil {
			return nil, err
		}
		attempts++
		tokens += result.TotalTokens
		model = result.ModelUsed

		rec, vErr = e.parseAndValidate(result.Content)
	}
	if vErr != nil {
		return nil, fmt.Errorf("respuesta rechazada tras %d intentos: %w", attempts, vErr)
	}

	preapproved := e.Rederive(rec)

	e.logger.Debug("extraction accepted",
		"attempts", attempts,
		"tokens", tokens,
		"preapproved", preapproved)

	return &Outcome{
		Record:      rec,
		Preapproved: preapproved,
		Attempts:    attempts,
		TotalTokens: tokens,
		Model:       model,
	}, nil
}

// Rederive recomputes the pre-approval flag over the record and stores it
// back. Callers that backfill a signal after extraction (the parser's photo
// detection) use it to keep the flag consistent with the signals.
func (e *Extractor) Rederive(rec Record) bool {
	preapproved := ComputeDerived(rec, e.rule)
	rec[DerivedKey] = preapproved
	return preapproved
}

func (e *Extractor) chat(ctx context.Context, system, user string, temperature float64) (*providers.ChatResult, error) {
	result, err := e.client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Model:          e.model,
		Temperature:    temperature,
		MaxTokens:      e.maxTokens,
		Timeout:        e.timeout,
		ResponseFormat: &providers.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		var pe *providers.ProviderError
		if errors.As(err, &pe) {
			return nil, pe
		}
		return nil, err
	}
	return result, nil
}

func (e *Extractor) parseAndValidate(content string) (Record, error) {
	obj, err := parseObject(content)
	if err != nil {
		return nil, err
	}
	return Validate(obj, e.schema)
}
