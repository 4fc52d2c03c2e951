package cookies

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCookie(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.json")
	c := NewLoadCookie(path)

	_, err := c.LoadCookies()
	assert.Error(t, err, "文件不存在时应报错")

	data := []byte(`[{"name":"reddit_session","value":"abc"}]`)
	require.NoError(t, c.SaveCookies(data))

	got, err := c.LoadCookies()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, c.DeleteCookies())
	require.NoError(t, c.DeleteCookies(), "重复删除不报错")

	_, err = c.LoadCookies()
	assert.Error(t, err)
}

func TestGetCookiesFilePath(t *testing.T) {
	t.Setenv(EnvCookiesPath, "/data/reddit-cookies.json")
	assert.Equal(t, "/data/reddit-cookies.json", GetCookiesFilePath())

	t.Setenv(EnvCookiesPath, "")
	assert.Equal(t, "cookies.json", filepath.Base(GetCookiesFilePath()))
}
