package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBrowserOptions(t *testing.T) {
	opts := DefaultBrowserOptions()
	assert.True(t, opts.Headless)
	assert.Equal(t, 10*time.Second, opts.ClickWait)
	assert.Greater(t, opts.PageTimeout, opts.ClickWait)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("net::ERR_NAME_NOT_RESOLVED")
	err := &Error{URL: "https://example.com", Message: "browser rendering failed", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fetch error for https://example.com: browser rendering failed: net::ERR_NAME_NOT_RESOLVED", err.Error())
	assert.Equal(t, "fetch error for https://example.com: timeout", (&Error{URL: "https://example.com", Message: "timeout"}).Error())
}

var _ Renderer = (*Browser)(nil)

// requireChrome skips browser tests when no Chrome binary is installed.
func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser tests in short mode")
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("Chrome not installed")
}

const tabsPage = `<html><body>
<div id="table">women</div>
<button id="men" onclick="document.getElementById('table').textContent='men'">Men</button>
</body></html>`

func TestBrowser_RenderClicksButton(t *testing.T) {
	requireChrome(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(tabsPage))
	}))
	defer server.Close()

	opts := DefaultBrowserOptions()
	opts.Settle = 100 * time.Millisecond
	browser, err := NewBrowser(context.Background(), opts, nil)
	require.NoError(t, err)
	defer browser.Close()

	html, err := browser.Render(context.Background(), server.URL, "")
	require.NoError(t, err)
	assert.Contains(t, html, `<div id="table">women</div>`)

	html, err = browser.Render(context.Background(), server.URL, `//*[@id="men"]`)
	require.NoError(t, err)
	assert.Contains(t, html, `<div id="table">men</div>`)
}

func TestBrowser_RenderMissingButton(t *testing.T) {
	requireChrome(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>empty</body></html>`))
	}))
	defer server.Close()

	opts := DefaultBrowserOptions()
	opts.Settle = 100 * time.Millisecond
	opts.ClickWait = 500 * time.Millisecond
	browser, err := NewBrowser(context.Background(), opts, nil)
	require.NoError(t, err)
	defer browser.Close()

	_, err = browser.Render(context.Background(), server.URL, `//*[@id="men"]`)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, server.URL, fetchErr.URL)
}
