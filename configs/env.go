package configs

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	EnvBrowserBin = "ROD_BROWSER_BIN"
	EnvPolicyPath = "UNSAVE_POLICY"
	EnvLogLevel   = "LOG_LEVEL"
)

// LoadEnv 尽力加载 .env，文件不存在不算错误
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("加载 %s 失败: %v", f, err)
		}
	}
}

// SetupLogging 根据 LOG_LEVEL 设置日志级别，默认 info
func SetupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := strings.TrimSpace(os.Getenv(EnvLogLevel))
	if level == "" {
		logrus.SetLevel(logrus.InfoLevel)
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("无效的 %s=%q，使用 info", EnvLogLevel, level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// ResolveBinPath 命令行参数优先，其次 ROD_BROWSER_BIN
func ResolveBinPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvBrowserBin)
}

// ResolvePolicyPath 命令行参数优先，其次 UNSAVE_POLICY
func ResolvePolicyPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvPolicyPath)
}
