package cookies

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const EnvCookiesPath = "COOKIES_PATH"

type Cookier interface {
	LoadCookies() ([]byte, error)
	SaveCookies(data []byte) error
	DeleteCookies() error
}

type localCookie struct {
	path string
}

func NewLoadCookie(path string) Cookier {
	if path == "" {
		panic("path is required")
	}

	return &localCookie{
		path: path,
	}
}

// LoadCookies 从文件中加载 cookies
func (c *localCookie) LoadCookies() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cookies from tmp file")
	}

	return data, nil
}

// SaveCookies 保存 cookies 到文件中
func (c *localCookie) SaveCookies(data []byte) error {
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create cookies dir")
		}
	}
	return os.WriteFile(c.path, data, 0o600)
}

// DeleteCookies 删除 cookies 文件，文件不存在不算错误
func (c *localCookie) DeleteCookies() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete cookies file")
	}
	return nil
}

// GetCookiesFilePath 获取 cookies 文件路径，优先使用 COOKIES_PATH
func GetCookiesFilePath() string {
	if path := os.Getenv(EnvCookiesPath); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "cookies.json")
}
