// Package config loads service configuration, env-first with an optional
// yaml file. Anything the service cannot run without is checked here so a
// misconfigured process fails at boot, not on the first request.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mklnz/offer-relay/internal/adapter/storage/recordstore"
)

type StoreConfig struct {
	BaseURL string             `mapstructure:"base_url"`
	Token   string             `mapstructure:"token"`
	Schema  recordstore.Schema `mapstructure:"schema"`
}

type DiscordConfig struct {
	BotToken string `mapstructure:"bot_token"`
	GuildID  string `mapstructure:"guild_id"`

	// FixedChannelID routes every offer to one channel, bypassing the
	// per-seller grouping hierarchy.
	FixedChannelID string `mapstructure:"fixed_channel_id"`
	AutoCreate     bool   `mapstructure:"auto_create"`
}

type RedisConfig struct {
	// Addr enables the cross-replica confirmation lease when set.
	Addr     string        `mapstructure:"addr"`
	LeaseTTL time.Duration `mapstructure:"lease_ttl"`
}

type Config struct {
	HTTPAddr string        `mapstructure:"http_addr"`
	Store    StoreConfig   `mapstructure:"store"`
	Discord  DiscordConfig `mapstructure:"discord"`
	Redis    RedisConfig   `mapstructure:"redis"`
}

// Load reads config.yaml if present, then environment variables prefixed
// OFFER_RELAY_ (dots become underscores, e.g. OFFER_RELAY_STORE_TOKEN).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("OFFER_RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("redis.lease_ttl", 30*time.Second)
	v.SetDefault("discord.auto_create", true)

	// Every key needs a registered default or AutomaticEnv values are not
	// visible to Unmarshal.
	v.SetDefault("store.base_url", "")
	v.SetDefault("store.token", "")
	v.SetDefault("discord.bot_token", "")
	v.SetDefault("discord.guild_id", "")
	v.SetDefault("discord.fixed_channel_id", "")
	v.SetDefault("redis.addr", "")

	s := recordstore.DefaultSchema()
	v.SetDefault("store.schema.orderstable", s.OrdersTable)
	v.SetDefault("store.schema.unitstable", s.UnitsTable)
	v.SetDefault("store.schema.salestable", s.SalesTable)
	v.SetDefault("store.schema.messagestable", s.MessagesTable)
	v.SetDefault("store.schema.orderstatusfield", s.OrderStatusField)
	v.SetDefault("store.schema.ordermatchedvalue", s.OrderMatchedValue)
	v.SetDefault("store.schema.unitproductfield", s.UnitProductField)
	v.SetDefault("store.schema.unitquantityfield", s.UnitQuantityField)
	v.SetDefault("store.schema.saleorderfield", s.SaleOrderField)
	v.SetDefault("store.schema.salesellerfield", s.SaleSellerField)
	v.SetDefault("store.schema.saleunitfield", s.SaleUnitField)
	v.SetDefault("store.schema.salepricefield", s.SalePriceField)
	v.SetDefault("store.schema.salecreatedfield", s.SaleCreatedField)
	v.SetDefault("store.schema.msgorderfield", s.MsgOrderField)
	v.SetDefault("store.schema.msgsellerfield", s.MsgSellerField)
	v.SetDefault("store.schema.msgunitfield", s.MsgUnitField)
	v.SetDefault("store.schema.msgchannelfield", s.MsgChannelField)
	v.SetDefault("store.schema.msgmessagefield", s.MsgMessageField)
	v.SetDefault("store.schema.msgpricefield", s.MsgPriceField)
}

func (c *Config) validate() error {
	if c.Store.BaseURL == "" {
		return errors.New("store.base_url is required")
	}
	if c.Store.Token == "" {
		return errors.New("store.token is required")
	}
	if err := c.Store.Schema.Validate(); err != nil {
		return err
	}
	if c.Discord.BotToken == "" {
		return errors.New("discord.bot_token is required")
	}
	if c.Discord.GuildID == "" && c.Discord.FixedChannelID == "" {
		return errors.New("either discord.guild_id or discord.fixed_channel_id is required")
	}
	return nil
}
