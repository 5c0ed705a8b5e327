package links

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolshed/internal/config"
)

func TestParseClassifiesLines(t *testing.T) {
	input := "https://example.com/a\n" +
		"\n" + // blank, skipped
		"example.org/path\n" + // scheme-less, gets https://
		"ftp://example.com\n" + // wrong scheme
		"http://localhost:8080/dash\n" +
		"not a url\n" +
		"http://nohost\n"

	all := Parse(input)
	require.Len(t, all, 6, "blank line must not appear")

	assert.True(t, all[0].Valid)
	assert.Equal(t, "https://example.com/a", all[0].URL)
	assert.Equal(t, 1, all[0].Line)

	assert.True(t, all[1].Valid)
	assert.Equal(t, "https://example.org/path", all[1].URL)
	assert.Equal(t, 3, all[1].Line, "line numbers count blank lines")

	assert.False(t, all[2].Valid)
	assert.Equal(t, "scheme must be http or https", all[2].Reason)

	assert.True(t, all[3].Valid, "localhost is a valid host")

	assert.False(t, all[4].Valid)
	assert.Equal(t, "contains whitespace", all[4].Reason)

	assert.False(t, all[5].Valid)
	assert.Equal(t, "host looks incomplete", all[5].Reason)
}

func TestSplitDedupes(t *testing.T) {
	all := Parse("https://example.com\nhttps://example.com\nbad url\nhttps://other.com")

	valid, invalid := Split(all, true)
	assert.Len(t, valid, 2)
	assert.Len(t, invalid, 1)

	valid, _ = Split(all, false)
	assert.Len(t, valid, 3)
}

// fakeOpener records opens without touching a browser.
type fakeOpener struct {
	mu   sync.Mutex
	urls []string
	fail map[string]bool
}

func (f *fakeOpener) Open(ctx context.Context, url string) (*Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[url] {
		return nil, assert.AnError
	}
	f.urls = append(f.urls, url)
	return &Tab{URL: url}, nil
}

func openerConfig() config.OpenerConfig {
	cfg := config.Default().Opener
	cfg.OpenDelay = 0
	return cfg
}

func TestRunOpensValidLinksOnly(t *testing.T) {
	fake := &fakeOpener{}
	o := NewOpener(openerConfig(), fake, nil)

	report, err := o.Run(context.Background(), "https://a.com\ngarbage line\nhttps://b.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.com", "https://b.com"}, fake.urls)
	assert.Len(t, report.Opened, 2)
	require.Len(t, report.Invalid, 1)
	assert.Equal(t, 2, report.Invalid[0].Line)
}

func TestRunRespectsCap(t *testing.T) {
	cfg := openerConfig()
	cfg.MaxLinks = 1
	fake := &fakeOpener{}
	o := NewOpener(cfg, fake, nil)

	_, err := o.Run(context.Background(), "https://a.com\nhttps://b.com")
	assert.ErrorIs(t, err, ErrTooManyLinks)
	assert.Empty(t, fake.urls, "nothing may open once the cap trips")
}

func TestRunCountsDedupedSkips(t *testing.T) {
	fake := &fakeOpener{}
	o := NewOpener(openerConfig(), fake, nil)

	report, err := o.Run(context.Background(), "https://a.com\nhttps://a.com\nhttps://a.com")
	require.NoError(t, err)
	assert.Len(t, report.Opened, 1)
	assert.Equal(t, 2, report.Skipped)
}

func TestRunSkipsFailedOpensWithoutRetry(t *testing.T) {
	fake := &fakeOpener{fail: map[string]bool{"https://a.com": true}}
	o := NewOpener(openerConfig(), fake, nil)

	report, err := o.Run(context.Background(), "https://a.com\nhttps://b.com")
	require.NoError(t, err)
	assert.Len(t, report.Opened, 1)
	assert.Equal(t, "https://b.com", report.Opened[0].URL)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeOpener{}
	o := NewOpener(openerConfig(), fake, nil)

	_, err := o.Run(ctx, "https://a.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.urls)
}
