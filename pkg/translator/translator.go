package translator

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed translation/*.toml
var embedded embed.FS

var Translator *i18n.Bundle

type Config struct {
	// TranslationFolder overrides the catalogs compiled into the binary.
	TranslationFolder  string
	DefaultLanguage    string
	SupportedLanguages []string // List of supported languages
}

const (
	LanguageJa = "ja"
	LanguageEn = "en"
)

var defaultLanguage = LanguageJa

func InitTranslator(cfg Config) {
	if cfg.DefaultLanguage != "" {
		defaultLanguage = cfg.DefaultLanguage
	}
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		zap.L().Warn("invalid default language, using ja", zap.String("lang", defaultLanguage), zap.Error(err))
		defaultLanguage = LanguageJa
		tag = language.Japanese
	}

	Translator = i18n.NewBundle(tag)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	var fsys fs.FS = embedded
	dir := "translation"
	if cfg.TranslationFolder != "" {
		fsys = os.DirFS(cfg.TranslationFolder)
		dir = "."
	}

	lstFiles, err := fs.ReadDir(fsys, dir)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() || !isSupported(f.Name(), cfg.SupportedLanguages) {
			continue
		}
		path := filepath.ToSlash(filepath.Join(dir, f.Name()))
		buf, err := fs.ReadFile(fsys, path)
		if err != nil {
			zap.L().Warn("failed to read translation file", zap.String("file", f.Name()), zap.Error(err))
			continue
		}
		if _, err := Translator.ParseMessageFileBytes(buf, f.Name()); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

// DefaultLanguage is the fallback used when a caller has no preference.
func DefaultLanguage() string {
	return defaultLanguage
}

// Localize renders messageID in lang, falling back to the default language
// and finally to the id itself.
func Localize(lang, messageID string, data map[string]any) string {
	if Translator == nil {
		return messageID
	}
	l := i18n.NewLocalizer(Translator, lang, defaultLanguage)
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", messageID), zap.Error(err))
		return messageID
	}
	return msg
}

func isSupported(fileName string, supported []string) bool {
	if len(supported) == 0 {
		return true
	}
	lang := strings.SplitN(fileName, ".", 2)[0]
	for _, s := range supported {
		if strings.EqualFold(s, lang) {
			return true
		}
	}
	return false
}
