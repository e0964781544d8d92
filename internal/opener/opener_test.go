package opener

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct{ copied []string }

func (f *fakeClipboard) Copy(text string) error {
	f.copied = append(f.copied, text)
	return nil
}

type fakeBrowser struct{ opened []string }

func (f *fakeBrowser) Open(url string) error {
	f.opened = append(f.opened, url)
	return nil
}

func TestOpenerDelegates(t *testing.T) {
	clip := &fakeClipboard{}
	browser := &fakeBrowser{}
	o := New().WithClipboard(clip).WithBrowser(browser)

	require.NoError(t, o.Open("https://leetcode.com/problems/two-sum/"))
	require.NoError(t, o.Copy("https://leetcode.com/problems/two-sum/"))

	assert.Equal(t, []string{"https://leetcode.com/problems/two-sum/"}, browser.opened)
	assert.Equal(t, []string{"https://leetcode.com/problems/two-sum/"}, clip.copied)
}

func TestCopyRejectsEmpty(t *testing.T) {
	clip := &fakeClipboard{}
	o := New().WithClipboard(clip)

	assert.Error(t, o.Copy(""))
	assert.Empty(t, clip.copied)
}

func TestSystemBrowserRejectsEmpty(t *testing.T) {
	assert.Error(t, systemBrowser{}.Open(""))
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		args []string
	}{
		{"darwin", []string{"open", "u"}},
		{"windows", []string{"cmd", "/c", "start", "", "u"}},
		{"linux", []string{"xdg-open", "u"}},
		{"freebsd", []string{"xdg-open", "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.args, browserCommand(tt.goos, "u").Args)
		})
	}
}

func TestSystemClipboardWithoutTool(t *testing.T) {
	c := &systemClipboard{find: func() *exec.Cmd { return nil }}
	assert.ErrorIs(t, c.Copy("hello"), ErrNoClipboard)
}

func TestSystemClipboardPipesText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clip.txt")
	c := &systemClipboard{find: func() *exec.Cmd {
		return exec.Command("sh", "-c", "cat > "+out)
	}}

	require.NoError(t, c.Copy("hello"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestStartDetachedReapsChild(t *testing.T) {
	done, err := startDetached(exec.Command("true"))
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("child was not reaped")
	}
}
