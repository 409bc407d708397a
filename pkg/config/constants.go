package config

const (
	// EnvPrefix namespaces every environment variable the backend reads.
	EnvPrefix = "BRIGHTVOLT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BRIGHTVOLT_DB_DSN"
	EnvDBHost = "BRIGHTVOLT_DB_HOST"
	EnvDBUser = "BRIGHTVOLT_DB_USER"
	EnvDBName = "BRIGHTVOLT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
