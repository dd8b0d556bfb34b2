package utils

// Environment variable names. Values are read at call time so a .env file loaded in main applies.
const (
	EnvConfigPath       = "CONFIG_PATH"
	EnvDataDir          = "DATA_DIR"
	EnvHTTPPort         = "HTTP_PORT"
	EnvCRDBDSN          = "CRDB_DSN"
	EnvAWSRegion        = "AWS_DEFAULT_REGION"
	EnvS3Endpoint       = "S3_ENDPOINT"
	EnvShutdownSleepSec = "SHUTDOWN_SLEEP_SEC"
)
