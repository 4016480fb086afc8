package configs

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var envOnce sync.Once

// loadEnv runs before the first config read. It cannot live in an init
// function because the package-level mongo client initializes first.
func loadEnv() {
	envOnce.Do(func() {
		// .env is optional; real deployments set the environment directly
		_ = godotenv.Load()

		viper.AutomaticEnv()
		viper.SetDefault("PORT", "3000")
		viper.SetDefault("DB_NAME", "golangApi")
	})
}

func EnvMongoURI() string {
	loadEnv()
	return viper.GetString("MONGOURI")
}

func EnvDBName() string {
	loadEnv()
	return viper.GetString("DB_NAME")
}

func EnvPort() string {
	loadEnv()
	return viper.GetString("PORT")
}

func EnvJWTSecret() string {
	loadEnv()
	return viper.GetString("JWT_SECRET")
}

func EnvRazorpayKeyId() string {
	loadEnv()
	return viper.GetString("RAZORPAY_KEY_ID")
}

func EnvRazorpayKeySecret() string {
	loadEnv()
	return viper.GetString("RAZORPAY_KEY_SECRET")
}

func EnvRazorpayWebhookSecret() string {
	loadEnv()
	return viper.GetString("RAZORPAY_WEBHOOK_SECRET")
}
