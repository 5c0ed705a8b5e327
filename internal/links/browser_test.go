package links

import (
	"context"
	"os"
	"testing"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBrowserOpensTabs(t *testing.T) {
	if os.Getenv("TOOLSHED_BROWSER_TEST") == "" {
		t.Skip("set TOOLSHED_BROWSER_TEST=1 to run browser integration tests")
	}
	defer goleak.VerifyNone(t)

	b := NewBrowser(os.Getenv("TOOLSHED_BROWSER_BIN"), nil)
	ctx := context.Background()
	require.NoError(t, b.Start(ctx))
	defer b.Close()

	// Start is idempotent while the browser is healthy.
	require.NoError(t, b.Start(ctx))

	tab, err := b.Open(ctx, "about:blank")
	require.NoError(t, err)
	assert.NotEmpty(t, tab.ID)
	assert.Len(t, b.Tabs(), 1)

	require.NoError(t, b.Close())
	assert.Empty(t, b.Tabs())
}

func TestBrowserOpenBeforeStart(t *testing.T) {
	b := NewBrowser("", nil)
	_, err := b.Open(context.Background(), "https://example.com")
	assert.Error(t, err)
}

func TestDetachedCloseLeavesBrowserRunning(t *testing.T) {
	b := NewBrowser("", nil).Detach()
	require.True(t, b.detach)

	// Close on a detached browser must not issue the kill; it only
	// drops the control state, so the tabs survive the caller.
	b.browser = rod.New()
	b.tabs = []Tab{{ID: "t1", URL: "https://example.com"}}
	require.NoError(t, b.Close())
	assert.Nil(t, b.browser)
	assert.Empty(t, b.Tabs())
}
