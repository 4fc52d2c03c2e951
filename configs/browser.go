package configs

import "sync"

var (
	mu          sync.RWMutex
	useHeadless = true
	binPath     = ""
)

func InitHeadless(h bool) {
	mu.Lock()
	defer mu.Unlock()
	useHeadless = h
}

// IsHeadless 是否无头模式
func IsHeadless() bool {
	mu.RLock()
	defer mu.RUnlock()
	return useHeadless
}

func SetBinPath(b string) {
	mu.Lock()
	defer mu.Unlock()
	binPath = b
}

// GetBinPath 浏览器二进制路径，为空时由 headless_browser 自动下载
func GetBinPath() string {
	mu.RLock()
	defer mu.RUnlock()
	return binPath
}
