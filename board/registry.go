package board

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/crashgames/plinkostat/errs"
)

// configFile 設定檔序列化形狀（yaml / json 共用）。
type configFile struct {
	Slots          int                  `yaml:"slots" json:"slots"`
	Multipliers    map[string][]float64 `yaml:"multipliers" json:"multipliers"`
	Theoretical    []float64            `yaml:"theoretical,omitempty" json:"theoretical,omitempty"`
	ChiCritical    float64              `yaml:"chi_critical,omitempty" json:"chi_critical,omitempty"`
	DevThreshold   float64              `yaml:"dev_threshold,omitempty" json:"dev_threshold,omitempty"`
	JackpotProb    map[string]float64   `yaml:"jackpot_prob,omitempty" json:"jackpot_prob,omitempty"`
	RTPTheoretical float64              `yaml:"rtp_theoretical,omitempty" json:"rtp_theoretical,omitempty"`
}

// GetConfigByYAML 讀取 YAML 設定、填入預設值並執行基本檢查後回傳。
func GetConfigByYAML(data []byte) (*Config, error) {
	f := &configFile{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	return f.build()
}

// GetConfigByJSON 讀取 Json 設定、填入預設值並執行基本檢查後回傳。
func GetConfigByJSON(data []byte) (*Config, error) {
	f := &configFile{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}
	return f.build()
}

func (f *configFile) build() (*Config, error) {
	cfg := &Config{
		Slots:          f.Slots,
		Multipliers:    map[RiskLevel][]float64{},
		Theoretical:    f.Theoretical,
		ChiCritical:    f.ChiCritical,
		DevThreshold:   f.DevThreshold,
		RTPTheoretical: f.RTPTheoretical,
	}
	for name, table := range f.Multipliers {
		lv := RiskLevel(name)
		if !lv.Known() {
			return nil, errs.Warnf("unknown risk level in config: %q", name)
		}
		cfg.Multipliers[lv] = table
	}
	if len(f.JackpotProb) > 0 {
		cfg.JackpotProb = map[RiskLevel]float64{}
		for name, p := range f.JackpotProb {
			lv := RiskLevel(name)
			if !lv.Known() {
				return nil, errs.Warnf("unknown risk level in jackpot_prob: %q", name)
			}
			cfg.JackpotProb[lv] = p
		}
	}
	if err := cfg.Init(); err != nil {
		return nil, errs.Wrap(err, "board config initialized err")
	}
	return cfg, nil
}
