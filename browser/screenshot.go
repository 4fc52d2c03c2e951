package browser

import (
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
)

// SaveScreenshot 保存整页截图，用于排查任务异常停止时页面所处的状态
func SaveScreenshot(page *rod.Page, dir, name string) (string, error) {
	data, err := page.Screenshot(true, nil)
	if err != nil {
		return "", errors.Wrap(err, "capture screenshot")
	}
	return WriteImage(dir, name, data)
}

// WriteImage 根据内容判断图片格式并写入 dir/name.<ext>
func WriteImage(dir, name string, data []byte) (string, error) {
	if !filetype.IsImage(data) {
		return "", errors.New("screenshot data is not an image")
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return "", errors.Wrap(err, "detect image type")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create screenshot dir")
	}

	path := filepath.Join(dir, name+"."+kind.Extension)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "write screenshot")
	}
	return path, nil
}
