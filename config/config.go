package config

import (
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debugf("no .env file loaded: %v", err)
		}

		viper.AutomaticEnv()

		viper.BindEnv("investing_base_url", "INVESTING_BASE_URL")
		viper.BindEnv("investing_cookie", "INVESTING_COOKIE")
		viper.BindEnv("kite_base_url", "KITE_BASE_URL")
		viper.BindEnv("kohan_base_url", "KOHAN_BASE_URL")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("sync_interval", "SYNC_INTERVAL")
		viper.BindEnv("category_count", "CATEGORY_COUNT")
		viper.BindEnv("debug", "DEBUG")

		viper.SetDefault("investing_base_url", "https://in.investing.com")
		viper.SetDefault("kite_base_url", "https://kite.zerodha.com/oms/gtt")
		viper.SetDefault("kohan_base_url", "http://localhost:9010/v1")
		viper.SetDefault("db_path", "data/toolkit.db")
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("sync_interval", 60)
		viper.SetDefault("category_count", 5)
		viper.SetDefault("http_timeout", 10)
		viper.SetDefault("debug", false)
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
