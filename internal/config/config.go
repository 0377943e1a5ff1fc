package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"brandmatch-service/internal/brandmatch/model"
)

type Config struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	LogLevel     string   `mapstructure:"log_level"`
	MaxUploadMB  int      `mapstructure:"max_upload_mb"`
	LogFile      string   `mapstructure:"log_file"`

	Keywords  KeywordsConfig  `mapstructure:"keywords"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type KeywordsConfig struct {
	File  string `mapstructure:"file"`
	Watch bool   `mapstructure:"watch"`
}

// CatalogConfig: откуда грузить справочник. Пустые url и file, встроенный набор.
type CatalogConfig struct {
	URL         string        `mapstructure:"url"`
	File        string        `mapstructure:"file"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RefreshRate int           `mapstructure:"refresh_rate"` // запросов в минуту
}

type MatchingConfig struct {
	ProductMin    float64       `mapstructure:"product_min"`
	LengthRatio   float64       `mapstructure:"length_ratio"`
	Accept        float64       `mapstructure:"accept"`
	EarlyExit     float64       `mapstructure:"early_exit"`
	WeightProduct float64       `mapstructure:"weight_product"`
	WeightSize    float64       `mapstructure:"weight_size"`
	WeightColor   float64       `mapstructure:"weight_color"`
	MaxCandidates int           `mapstructure:"max_candidates"`
	RowTimeout    time.Duration `mapstructure:"row_timeout"`
	BatchTimeout  time.Duration `mapstructure:"batch_timeout"`
	Workers       int           `mapstructure:"workers"`
	Metric        string        `mapstructure:"metric"`
	MemoSize      int           `mapstructure:"memo_size"`
}

type FallbackConfig struct {
	Prefix          int           `mapstructure:"prefix"`
	Cap             int           `mapstructure:"cap"`
	ProcessLimit    int           `mapstructure:"process_limit"`
	ItemTimeout     time.Duration `mapstructure:"item_timeout"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	Accept          float64       `mapstructure:"accept"`
	ProductMin      float64       `mapstructure:"product_min"`
	WeightProduct   float64       `mapstructure:"weight_product"`
	WeightColor     float64       `mapstructure:"weight_color"`
	WeightSize      float64       `mapstructure:"weight_size"`
	ReweightProduct float64       `mapstructure:"reweight_product"`
}

// RateLimitConfig: лимит на /match.
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

var knownMetrics = map[string]bool{"levenshtein": true, "damerau": true, "alignment": true}

// Load: дефолты → config.yaml (если есть) → переменные BRANDMATCH_*.
// path: явный файл конфигурации, пустой, ищем в . и ./config.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("BRANDMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := model.DefaultOptions()

	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8082)
	v.SetDefault("allow_origins", []string{"*"})
	v.SetDefault("log_level", "info")
	v.SetDefault("max_upload_mb", 256)
	v.SetDefault("log_file", "logs/brandmatch-service.log")

	v.SetDefault("keywords.file", "keywords.xlsx")
	v.SetDefault("keywords.watch", false)

	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.refresh_rate", 6)

	v.SetDefault("matching.product_min", d.ProductMin)
	v.SetDefault("matching.length_ratio", d.LengthRatio)
	v.SetDefault("matching.accept", d.Accept)
	v.SetDefault("matching.early_exit", d.EarlyExit)
	v.SetDefault("matching.weight_product", d.WeightProduct)
	v.SetDefault("matching.weight_size", d.WeightSize)
	v.SetDefault("matching.weight_color", d.WeightColor)
	v.SetDefault("matching.max_candidates", d.MaxCandidates)
	v.SetDefault("matching.row_timeout", d.RowTimeout)
	v.SetDefault("matching.batch_timeout", d.BatchTimeout)
	v.SetDefault("matching.workers", d.Workers)
	v.SetDefault("matching.metric", d.Metric)
	v.SetDefault("matching.memo_size", d.MemoSize)

	f := d.Fallback
	v.SetDefault("fallback.prefix", f.PrefixLimit)
	v.SetDefault("fallback.cap", f.CandidateCap)
	v.SetDefault("fallback.process_limit", f.ProcessLimit)
	v.SetDefault("fallback.item_timeout", f.ItemTimeout)
	v.SetDefault("fallback.batch_timeout", f.BatchTimeout)
	v.SetDefault("fallback.accept", f.Accept)
	v.SetDefault("fallback.product_min", f.ProductMin)
	v.SetDefault("fallback.weight_product", f.WeightProduct)
	v.SetDefault("fallback.weight_color", f.WeightColor)
	v.SetDefault("fallback.weight_size", f.WeightSize)
	v.SetDefault("fallback.reweight_product", f.ReweightProduct)

	v.SetDefault("rate_limit.per_second", 2.0)
	v.SetDefault("rate_limit.burst", 4)
}

// Validate: веса в сумме 1, таймауты положительные, метрика известна.
func (c Config) Validate() error {
	m := c.Matching
	if !sumsToOne(m.WeightProduct, m.WeightSize, m.WeightColor) {
		return fmt.Errorf("matching weights must sum to 1, got %.3f", m.WeightProduct+m.WeightSize+m.WeightColor)
	}
	f := c.Fallback
	if !sumsToOne(f.WeightProduct, f.WeightColor, f.WeightSize) {
		return fmt.Errorf("fallback weights must sum to 1, got %.3f", f.WeightProduct+f.WeightColor+f.WeightSize)
	}
	if f.ReweightProduct <= 0 || f.ReweightProduct > 1 {
		return fmt.Errorf("fallback reweight_product must be in (0,1], got %.3f", f.ReweightProduct)
	}
	for name, d := range map[string]time.Duration{
		"matching.row_timeout":   m.RowTimeout,
		"matching.batch_timeout": m.BatchTimeout,
		"fallback.item_timeout":  f.ItemTimeout,
		"fallback.batch_timeout": f.BatchTimeout,
		"catalog.timeout":        c.Catalog.Timeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if !knownMetrics[strings.ToLower(m.Metric)] {
		return fmt.Errorf("unknown metric %q", m.Metric)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

func sumsToOne(ws ...float64) bool {
	s := 0.0
	for _, w := range ws {
		s += w
	}
	return math.Abs(s-1) <= 0.001
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Options: параметры матчинга для service.New.
func (c Config) Options() model.Options {
	m, f := c.Matching, c.Fallback
	return model.Options{
		ProductMin:    m.ProductMin,
		LengthRatio:   m.LengthRatio,
		Accept:        m.Accept,
		EarlyExit:     m.EarlyExit,
		WeightProduct: m.WeightProduct,
		WeightSize:    m.WeightSize,
		WeightColor:   m.WeightColor,
		MaxCandidates: m.MaxCandidates,
		RowTimeout:    m.RowTimeout,
		BatchTimeout:  m.BatchTimeout,
		Workers:       m.Workers,
		Metric:        strings.ToLower(m.Metric),
		MemoSize:      m.MemoSize,
		Fallback: model.FallbackOptions{
			PrefixLimit:     f.Prefix,
			CandidateCap:    f.Cap,
			ProcessLimit:    f.ProcessLimit,
			ItemTimeout:     f.ItemTimeout,
			BatchTimeout:    f.BatchTimeout,
			Accept:          f.Accept,
			ProductMin:      f.ProductMin,
			WeightProduct:   f.WeightProduct,
			WeightColor:     f.WeightColor,
			WeightSize:      f.WeightSize,
			ReweightProduct: f.ReweightProduct,
		},
	}
}
