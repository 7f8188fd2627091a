package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

func TestNew_SelectsLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{lang: "", want: "en"},
		{lang: "en", want: "en"},
		{lang: "de", want: "de"},
		{lang: "de-AT", want: "de"},
		{lang: "fr", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			l, err := New(tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Lang())
		})
	}
}

func TestNew_RejectsMalformedTag(t *testing.T) {
	_, err := New("not a language!")
	require.Error(t, err)
	assert.Panics(t, func() { MustNew("not a language!") })
}

func TestT_Translates(t *testing.T) {
	assert.Equal(t, "Sign in", MustNew("en").T("app.title"))
	assert.Equal(t, "Anmelden", MustNew("de").T("app.title"))
}

func TestT_FallsBackToID(t *testing.T) {
	assert.Equal(t, "missing.key", MustNew("en").T("missing.key"))

	var nilLocalizer *Localizer
	assert.Equal(t, "app.title", nilLocalizer.T("app.title"))
	assert.Equal(t, "en", nilLocalizer.Lang())
}

func TestTf_ExecutesTemplate(t *testing.T) {
	got := MustNew("en").Tf("app.welcome", map[string]any{"Username": "alice"})
	assert.Equal(t, "Welcome back, alice", got)
}

func TestError_EveryKindHasAMessage(t *testing.T) {
	kinds := []auth.ErrorKind{
		auth.KindEmptyIdentifier,
		auth.KindEmptySecret,
		auth.KindInvalidCredentials,
		auth.KindNetworkUnavailable,
		auth.KindServerError,
		auth.KindCancelled,
	}

	for _, lang := range Supported() {
		l := MustNew(lang)
		for _, kind := range kinds {
			msg := l.Error(kind)
			assert.NotEqual(t, "error."+string(kind), msg, "%s has no %s message", lang, kind)
			assert.NotEmpty(t, msg)
		}
	}

	assert.Empty(t, MustNew("en").Error(""))
	assert.Equal(t, "Invalid username or password", MustNew("en").Error(auth.KindInvalidCredentials))
}

func TestSupported(t *testing.T) {
	assert.Equal(t, []string{"en", "de"}, Supported())
}
