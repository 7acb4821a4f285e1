package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// StockPolicy names the behavior when a line-item stock adjustment fails
// during a bill mutation.
type StockPolicy string

const (
	// StockPolicyBestEffort logs the failed item and continues with the rest.
	StockPolicyBestEffort StockPolicy = "best_effort"
	// StockPolicyAllOrNothing aborts on the first failed item and compensates
	// the items already applied.
	StockPolicyAllOrNothing StockPolicy = "all_or_nothing"
)

// BillingConfig holds billing runtime settings loaded from billing.yml.
type BillingConfig struct {
	StockPolicy     StockPolicy `mapstructure:"stockPolicy"`
	DefaultPageSize int         `mapstructure:"defaultPageSize"`
	MaxPageSize     int         `mapstructure:"maxPageSize"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		StockPolicy:     StockPolicyBestEffort,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/bizbook/config") // Volume-mounted config
	v.AddConfigPath("/etc/bizbook")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("BIZBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.stockPolicy", string(defaults.StockPolicy))
	v.SetDefault("billing.defaultPageSize", defaults.DefaultPageSize)
	v.SetDefault("billing.maxPageSize", defaults.MaxPageSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

// NewStaticBillingConfigHolder returns a holder pinned to cfg, for tests.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateBillingConfig(cfg BillingConfig) error {
	switch cfg.StockPolicy {
	case StockPolicyBestEffort, StockPolicyAllOrNothing:
	default:
		return errors.New("billing.stockPolicy must be best_effort or all_or_nothing")
	}
	if cfg.DefaultPageSize <= 0 {
		return errors.New("billing.defaultPageSize must be positive")
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return errors.New("billing.maxPageSize cannot be below defaultPageSize")
	}
	return nil
}
