// Package explain answers "what does this word mean here" questions,
// fronting the model with a persistent cache.
package explain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/dgallion1/lexread/internal/cache"
	"github.com/dgallion1/lexread/internal/llm"
)

// ErrNoProvider means no model is configured and the request carried no
// usable override.
var ErrNoProvider = errors.New("no llm provider configured")

// Result is one explanation, cached or fresh. Confidence is 0.95 for any
// answer the model stood behind and 0.0 for a service failure.
type Result struct {
	Word        string  `json:"word"`
	Meaning     string  `json:"meaning_zh"`
	Explanation string  `json:"explanation_zh"`
	Confidence  float64 `json:"confidence"`
	Cached      bool    `json:"cached"`
}

// Service looks up explanations in the cache and falls back to the
// configured provider. The default provider can be swapped at runtime when
// the user changes model settings.
type Service struct {
	store   *cache.Store
	factory func(llm.Config) (llm.Provider, error)
	log     *slog.Logger

	mu       sync.RWMutex
	provider llm.Provider
}

// New builds a service over the cache store. A nil logger disables logging.
func New(store *cache.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, factory: llm.New, log: log}
}

// SetProvider installs the default provider. A nil provider disables
// explanations until a new one is set.
func (s *Service) SetProvider(p llm.Provider) {
	s.mu.Lock()
	s.provider = p
	s.mu.Unlock()
}

// HasProvider reports whether a default provider is installed.
func (s *Service) HasProvider() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider != nil
}

// resolve picks the provider and cache-key scope for one request. An
// override builds a throwaway provider scoped by its config ID; otherwise
// the default provider is used with the unscoped key.
func (s *Service) resolve(override *llm.Config) (llm.Provider, string, error) {
	if override != nil {
		p, err := s.factory(*override)
		if err != nil {
			return nil, "", err
		}
		return p, override.ID(), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.provider == nil {
		return nil, "", ErrNoProvider
	}
	return s.provider, "", nil
}

// Explain returns the contextual meaning of word inside sentence. Cache
// hits short-circuit the model. A model failure is reported inside the
// result, not as an error, and is never cached.
func (s *Service) Explain(ctx context.Context, word, sentence string, override *llm.Config) (*Result, error) {
	provider, configID, err := s.resolve(override)
	if err != nil {
		return nil, err
	}
	key := Fingerprint(sentence, word, configID)

	if entry, err := s.store.Get(ctx, key); err != nil {
		s.log.Warn("cache lookup failed", "key", key, "error", err)
	} else if entry != nil {
		return &Result{
			Word:        word,
			Meaning:     entry.Meaning,
			Explanation: entry.Explanation,
			Confidence:  0.95,
			Cached:      true,
		}, nil
	}

	meaning, explanation, err := provider.ExplainWord(ctx, word, sentence)
	if err != nil {
		s.log.Warn("explain call failed", "word", word, "error", err)
		return &Result{
			Word:        word,
			Meaning:     "服务错误",
			Explanation: "模型调用失败：" + err.Error(),
			Confidence:  0.0,
		}, nil
	}

	if err := s.store.Put(ctx, cache.Entry{
		Key:         key,
		Word:        word,
		Sentence:    sentence,
		Meaning:     meaning,
		Explanation: explanation,
	}); err != nil {
		// A failed write costs a repeat model call later, nothing more.
		s.log.Warn("cache write failed", "key", key, "error", err)
	}

	return &Result{
		Word:        word,
		Meaning:     meaning,
		Explanation: explanation,
		Confidence:  0.95,
	}, nil
}

// Translate translates text to Chinese. Translations are not cached. A
// model failure comes back as the translation text itself.
func (s *Service) Translate(ctx context.Context, text string, override *llm.Config) (string, error) {
	provider, _, err := s.resolve(override)
	if err != nil {
		return "", err
	}
	out, err := provider.TranslateText(ctx, text)
	if err != nil {
		s.log.Warn("translate call failed", "error", err)
		return "翻译失败：" + err.Error(), nil
	}
	return out, nil
}
