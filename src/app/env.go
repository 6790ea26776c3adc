package app

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Blackdeer1524/FrameDB/src/pkg/assert"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

type envVars struct {
	Environment Environment `envconfig:"FRAMEDB_ENVIRONMENT" default:"dev"`
	PoolSize    uint32      `envconfig:"FRAMEDB_POOL_SIZE"   default:"64"`
	DataDir     string      `envconfig:"FRAMEDB_DATA_DIR"    default:"./data"`
}

func mustLoadEnv() envVars {
	// missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	var env envVars
	err := envconfig.Process("", &env)
	assert.NoError(err)

	assert.Assert(env.PoolSize > 0, "FRAMEDB_POOL_SIZE must be greater than zero")
	assert.Assert(
		env.Environment == EnvDev || env.Environment == EnvProd,
		"unknown FRAMEDB_ENVIRONMENT: %s",
		env.Environment,
	)

	return env
}
