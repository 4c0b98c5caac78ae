// Package locale translates user-facing messages and notifies listeners
// when the active language changes.
//
// Catalogs are nested JSON objects loaded into a go-i18n bundle; nested
// keys are addressed by dot paths ("find.count"). Values are Go templates
// ("{{.current}} of {{.total}}") filled from T's arguments.
package locale

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/yaklabco/mdpane/internal/logging"
)

// Fallback is the language used when nothing better is available.
const Fallback = "en"

const metaPrefix = "_meta."

//go:embed catalogs/*.json
var catalogFS embed.FS

// Language describes an available catalog.
type Language struct {
	Code        string
	NameNative  string
	NameEnglish string
	Flag        string
}

// Display returns "Native / English".
func (l Language) Display() string {
	return l.NameNative + " / " + l.NameEnglish
}

type subscriber struct {
	id int
	fn func(lang string)
}

type catalog struct {
	lang       Language
	localizer  *i18n.Localizer
	messageIDs map[string]struct{}
}

// Service holds the active language. It is safe for concurrent use.
type Service struct {
	bundle   *i18n.Bundle
	catalogs map[string]*catalog

	mu      sync.RWMutex
	current string
	subs    []subscriber
	nextID  int
}

// New returns a service using lang, or Fallback when lang has no catalog.
func New(lang string) *Service {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	s := &Service{
		bundle:   bundle,
		catalogs: make(map[string]*catalog),
	}
	s.loadEmbedded()

	if _, ok := s.catalogs[lang]; !ok {
		lang = Fallback
	}
	s.current = lang
	return s
}

func (s *Service) loadEmbedded() {
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		logging.Default().Error("read catalogs", logging.FieldError, err)
		return
	}

	for _, e := range entries {
		code := strings.TrimSuffix(e.Name(), ".json")
		file, err := s.bundle.LoadMessageFileFS(catalogFS, path.Join("catalogs", e.Name()))
		if err != nil {
			logging.Default().Error("load catalog", logging.FieldLanguage, code, logging.FieldError, err)
			continue
		}
		s.catalogs[code] = newCatalog(s.bundle, code, file.Messages)
	}
}

func newCatalog(bundle *i18n.Bundle, code string, messages []*i18n.Message) *catalog {
	c := &catalog{
		lang:       Language{Code: code, NameNative: code, NameEnglish: code},
		localizer:  i18n.NewLocalizer(bundle, code),
		messageIDs: make(map[string]struct{}, len(messages)),
	}

	for _, m := range messages {
		name, isMeta := strings.CutPrefix(m.ID, metaPrefix)
		if !isMeta {
			c.messageIDs[m.ID] = struct{}{}
			continue
		}
		if m.Other == "" {
			continue
		}
		switch name {
		case "name_native":
			c.lang.NameNative = m.Other
		case "name_english":
			c.lang.NameEnglish = m.Other
		case "flag":
			c.lang.Flag = m.Other
		}
	}
	return c
}

// Language returns the active language code.
func (s *Service) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Languages returns the available languages ordered by English name.
func (s *Service) Languages() []Language {
	out := make([]Language, 0, len(s.catalogs))
	for _, c := range s.catalogs {
		out = append(out, c.lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameEnglish < out[j].NameEnglish })
	return out
}

// Has reports whether a catalog exists for code.
func (s *Service) Has(code string) bool {
	_, ok := s.catalogs[code]
	return ok
}

// Missing returns the message keys the Fallback catalog defines and code's
// catalog lacks, sorted. T answers those from Fallback.
func (s *Service) Missing(code string) []string {
	base, ok := s.catalogs[Fallback]
	if !ok {
		return nil
	}
	target := s.catalogs[code]

	var out []string
	for id := range base.messageIDs {
		if target != nil {
			if _, ok := target.messageIDs[id]; ok {
				continue
			}
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// T returns the message for key in the active language, falling back to
// Fallback's catalog. kv holds alternating placeholder names and values:
// T("find.count", "current", 1, "total", 3). A key no catalog defines
// returns the key itself.
func (s *Service) T(key string, kv ...any) string {
	s.mu.RLock()
	c := s.catalogs[s.current]
	s.mu.RUnlock()

	if c == nil {
		return key
	}

	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData(kv),
	})
	if err != nil && msg == "" {
		var notFound *i18n.MessageNotFoundErr
		if !errors.As(err, &notFound) {
			logging.Default().Debug("localize failed", logging.FieldLanguage, c.lang.Code, logging.FieldError, err)
		}
		return key
	}
	return msg
}

func templateData(kv []any) map[string]any {
	if len(kv) < 2 {
		return nil
	}
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if name, ok := kv[i].(string); ok {
			data[name] = kv[i+1]
		}
	}
	return data
}

// SetLanguage switches the active language and notifies subscribers in
// registration order. It returns false, changing nothing, for unknown
// codes.
func (s *Service) SetLanguage(code string) bool {
	if !s.Has(code) {
		return false
	}

	s.mu.Lock()
	s.current = code
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		notify(sub, code)
	}
	return true
}

// Subscribe registers fn to run after every successful SetLanguage. The
// returned function removes it.
func (s *Service) Subscribe(fn func(lang string)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify runs one subscriber. A panicking subscriber is logged and does not
// stop the others.
func notify(sub subscriber, code string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Default().Warn("language listener failed",
				logging.FieldLanguage, code,
				logging.FieldError, fmt.Sprint(r),
			)
		}
	}()
	sub.fn(code)
}

// DetectSystemLanguage returns the language code from LC_ALL, LC_MESSAGES
// or LANG ("es_ES.UTF-8" gives "es"), or "" when none is set.
func DetectSystemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		code, _, _ := strings.Cut(v, "_")
		code, _, _ = strings.Cut(code, ".")
		return strings.ToLower(code)
	}
	return ""
}

// Resolve picks the language to start with: preferred when available,
// then the system language, then Fallback.
func (s *Service) Resolve(preferred string) string {
	if preferred != "" && s.Has(preferred) {
		return preferred
	}
	if sys := DetectSystemLanguage(); sys != "" && s.Has(sys) {
		return sys
	}
	return Fallback
}
