package browser

import (
	"sync"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
	"github.com/xpzouying/headless_browser"
)

// Manager 浏览器实例管理器，同一时间只允许一个任务使用浏览器。
// 取消收藏必须串行执行，第二个任务会阻塞到第一个任务释放浏览器。
type Manager struct {
	mu         sync.Mutex
	cond       *sync.Cond
	browser    *headless_browser.Browser
	headless   bool
	binPath    string
	cookiePath string
	inUse      bool
	newBrowser func(headless bool, options ...Option) *headless_browser.Browser
}

var (
	globalManager     *Manager
	globalManagerOnce sync.Once
)

func NewManager() *Manager {
	m := &Manager{newBrowser: NewBrowser}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// GetGlobalManager 获取全局浏览器管理器（单例）
func GetGlobalManager() *Manager {
	globalManagerOnce.Do(func() {
		globalManager = NewManager()
	})
	return globalManager
}

func (m *Manager) SetConfig(headless bool, binPath, cookiePath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headless = headless
	m.binPath = binPath
	m.cookiePath = cookiePath
}

// CookiePath 当前配置的 cookies 文件路径，可能为空
func (m *Manager) CookiePath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cookiePath
}

// AcquireBrowser 获取浏览器实例，会阻塞直到浏览器可用。
// 使用完毕后必须调用返回的 release。
func (m *Manager) AcquireBrowser() (*headless_browser.Browser, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.inUse {
		logrus.Info("⏳ 浏览器正在使用中，等待释放...")
		m.cond.Wait()
	}

	if m.browser == nil {
		logrus.Info("创建新的浏览器实例...")
		m.browser = m.newBrowser(m.headless, WithBinPath(m.binPath), WithCookiesPath(m.cookiePath))
	}

	m.inUse = true
	b := m.browser

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.inUse = false
			logrus.Debug("浏览器实例已释放")
			m.cond.Signal()
		})
	}

	return b, release
}

// CloseBrowser 关闭并清理浏览器实例
func (m *Manager) CloseBrowser() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		logrus.Info("关闭浏览器实例...")
		m.browser.Close()
		m.browser = nil
		m.inUse = false
		m.cond.Broadcast()
	}
}

// NewPageWithRelease 获取浏览器并打开新页面，release 先关闭页面再释放浏览器
func (m *Manager) NewPageWithRelease() (*rod.Page, func()) {
	b, releaseBrowser := m.AcquireBrowser()

	page := b.NewPage()
	ConfigurePage(page)

	release := func() {
		if page != nil {
			_ = page.Close()
		}
		releaseBrowser()
	}

	return page, release
}
