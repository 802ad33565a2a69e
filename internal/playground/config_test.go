package playground

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg := ParseConfig(httptest.NewRequest(http.MethodGet, "/employee", nil))
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, OnSubmit, cfg.ShouldValidate)
	assert.Equal(t, OnInput, cfg.ShouldRevalidate)
	assert.Empty(t, cfg.Query())
}

func TestParseConfig_Overrides(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/employee?validate=onBlur&revalidate=onSubmit&noValidate=yes&fallbackNative=true", nil)
	cfg := ParseConfig(req)

	assert.Equal(t, Config{
		ShouldValidate:   OnBlur,
		ShouldRevalidate: OnSubmit,
		NoValidate:       true,
		FallbackNative:   true,
	}, cfg)
	assert.Equal(t, cfg, FromValues(cfg.Query()))
}

func TestParseConfig_InvalidFallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/employee?validate=sometimes&noValidate=maybe", nil)
	assert.Equal(t, Default(), ParseConfig(req))
}
