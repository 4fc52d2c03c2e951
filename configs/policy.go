package configs

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xpzouying/unsave-mcp/reddit"
	"github.com/xpzouying/unsave-mcp/unsave"
)

// DelayWindow 随机延迟窗口
type DelayWindow struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// policyFile 策略文件格式，未填写的字段使用默认值
//
//	feed_url: https://www.reddit.com/user/me/saved/
//	action_delay: {min: 500ms, max: 1500ms}
//	settle_delay: 2s
//	cycle_delay: {min: 1s, max: 3s}
//	stagnation_threshold: 3
//	labels: {saved: Remove from saved, unsaved: Save}
type policyFile struct {
	FeedURL             string        `yaml:"feed_url"`
	ActionDelay         DelayWindow   `yaml:"action_delay"`
	SettleDelay         time.Duration `yaml:"settle_delay"`
	CycleDelay          DelayWindow   `yaml:"cycle_delay"`
	StagnationThreshold int           `yaml:"stagnation_threshold"`
	Labels              struct {
		Saved   string `yaml:"saved"`
		Unsaved string `yaml:"unsaved"`
	} `yaml:"labels"`
}

// Settings 一次取消收藏任务的配置
type Settings struct {
	FeedURL string
	Policy  unsave.Policy
}

func DefaultSettings() Settings {
	return Settings{
		FeedURL: reddit.DefaultSavedURL,
		Policy:  unsave.DefaultPolicy(),
	}
}

// LoadSettings 读取策略文件并与默认值合并，path 为空时直接返回默认值
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, errors.Wrapf(err, "read policy file %s", path)
	}

	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return settings, errors.Wrapf(err, "parse policy file %s", path)
	}

	f.apply(&settings)
	if err := reddit.ValidateFeedURL(settings.FeedURL); err != nil {
		return settings, errors.Wrapf(err, "policy file %s", path)
	}
	if err := settings.Policy.Validate(); err != nil {
		return settings, errors.Wrapf(err, "policy file %s", path)
	}

	return settings, nil
}

func (f policyFile) apply(s *Settings) {
	if f.FeedURL != "" {
		s.FeedURL = f.FeedURL
	}
	p := &s.Policy
	if f.ActionDelay.Min != 0 || f.ActionDelay.Max != 0 {
		p.ActionDelayMin, p.ActionDelayMax = f.ActionDelay.Min, f.ActionDelay.Max
	}
	if f.SettleDelay != 0 {
		p.SettleDelay = f.SettleDelay
	}
	if f.CycleDelay.Min != 0 || f.CycleDelay.Max != 0 {
		p.CycleDelayMin, p.CycleDelayMax = f.CycleDelay.Min, f.CycleDelay.Max
	}
	if f.StagnationThreshold != 0 {
		p.StagnationThreshold = f.StagnationThreshold
	}
	if f.Labels.Saved != "" {
		p.SavedLabel = f.Labels.Saved
	}
	if f.Labels.Unsaved != "" {
		p.UnsavedLabel = f.Labels.Unsaved
	}
}
