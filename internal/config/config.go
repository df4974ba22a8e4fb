package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string         `mapstructure:"port" yaml:"port"`
	Env      string         `mapstructure:"env" yaml:"env"`
	ShopName string         `mapstructure:"shopName" yaml:"shopName"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Mongo    MongoConfig    `mapstructure:"mongo" yaml:"mongo"`
	Razorpay RazorpayConfig `mapstructure:"razorpay" yaml:"razorpay"`
	Mail     MailConfig     `mapstructure:"mail" yaml:"mail"`
	Orders   OrdersConfig   `mapstructure:"orders" yaml:"orders"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
}

type StorageConfig struct {
	// json o mongo
	Driver          string `mapstructure:"driver" yaml:"driver"`
	DataDir         string `mapstructure:"dataDir" yaml:"dataDir"`
	BackupDir       string `mapstructure:"backupDir" yaml:"backupDir"`
	BackupRetention int    `mapstructure:"backupRetention" yaml:"backupRetention"`
}

type MongoConfig struct {
	URI      string        `mapstructure:"uri" yaml:"uri"`
	Database string        `mapstructure:"database" yaml:"database"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type RazorpayConfig struct {
	KeyID     string `mapstructure:"keyId" yaml:"keyId"`
	KeySecret string `mapstructure:"keySecret" yaml:"keySecret"`
}

type MailConfig struct {
	From              string `mapstructure:"from" yaml:"from"`
	Inbox             string `mapstructure:"inbox" yaml:"inbox"`
	GmailUser         string `mapstructure:"gmailUser" yaml:"gmailUser"`
	GmailAppPassword  string `mapstructure:"gmailAppPassword" yaml:"gmailAppPassword"`
	HostingerEmail    string `mapstructure:"hostingerEmail" yaml:"hostingerEmail"`
	HostingerPassword string `mapstructure:"hostingerPassword" yaml:"hostingerPassword"`
	RelayURL          string `mapstructure:"relayUrl" yaml:"relayUrl"`
	RelayToken        string `mapstructure:"relayToken" yaml:"relayToken"`
}

type OrdersConfig struct {
	AllowDelete bool `mapstructure:"allowDelete" yaml:"allowDelete"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Variables de entorno por clave; la primera que exista gana.
var envBindings = map[string][]string{
	"port":                    {"PORT"},
	"env":                     {"APP_ENV", "NODE_ENV"},
	"shopName":                {"SHOP_NAME"},
	"storage.driver":          {"STORAGE_DRIVER"},
	"storage.dataDir":         {"DATA_DIR"},
	"storage.backupDir":       {"BACKUP_DIR"},
	"storage.backupRetention": {"BACKUP_RETENTION"},
	"mongo.uri":               {"MONGO_URI", "MONGODB_URI"},
	"mongo.database":          {"MONGO_DB"},
	"mongo.timeout":           {"MONGO_TIMEOUT"},
	"razorpay.keyId":          {"RAZORPAY_KEY_ID"},
	"razorpay.keySecret":      {"RAZORPAY_KEY_SECRET"},
	"mail.from":               {"MAIL_FROM"},
	"mail.inbox":              {"MAIL_INBOX"},
	"mail.gmailUser":          {"GMAIL_USER"},
	"mail.gmailAppPassword":   {"GMAIL_APP_PASSWORD"},
	"mail.hostingerEmail":     {"HOSTINGER_EMAIL"},
	"mail.hostingerPassword":  {"HOSTINGER_PASSWORD"},
	"mail.relayUrl":           {"MAIL_RELAY_URL"},
	"mail.relayToken":         {"MAIL_RELAY_TOKEN"},
	"orders.allowDelete":      {"ALLOW_ORDER_DELETE"},
	"cache.ttl":               {"CACHE_TTL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("env", "development")
	v.SetDefault("shopName", "Storefront")
	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.dataDir", "data")
	v.SetDefault("storage.backupDir", "data/backups")
	v.SetDefault("storage.backupRetention", 50)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "storefront")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("orders.allowDelete", false)
	v.SetDefault("cache.ttl", 2*time.Minute)
}

// LoadConfig carga .env (si existe), luego config.yaml (si existe) y por
// último las variables de entorno, que tienen prioridad.
func LoadConfig(path string) (*Config, error) {
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		} else {
			log.Println("✅ .env file loaded successfully")
		}
	} else {
		log.Println("🌐 Using system environment variables")
	}

	v := viper.New()
	setDefaults(v)
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Mail.From == "" {
		if cfg.Mail.GmailUser != "" {
			cfg.Mail.From = cfg.Mail.GmailUser
		} else {
			cfg.Mail.From = cfg.Mail.HostingerEmail
		}
	}
	return cfg, nil
}

// IsProduction indica si se deben ocultar los mensajes de error internos.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

const redacted = "********"

// Redacted devuelve una copia sin secretos, para imprimirla.
func (c Config) Redacted() Config {
	mask := func(s *string) {
		if *s != "" {
			*s = redacted
		}
	}
	mask(&c.Razorpay.KeySecret)
	mask(&c.Mail.GmailAppPassword)
	mask(&c.Mail.HostingerPassword)
	mask(&c.Mail.RelayToken)
	if i := strings.Index(c.Mongo.URI, "@"); i > 0 {
		if j := strings.Index(c.Mongo.URI, "://"); j >= 0 && j < i {
			c.Mongo.URI = c.Mongo.URI[:j+3] + redacted + c.Mongo.URI[i:]
		}
	}
	return c
}
