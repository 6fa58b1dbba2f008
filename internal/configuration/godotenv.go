package configuration

import (
	"fmt"

	"github.com/joho/godotenv"
)

// GodotenvProvider reads settings files in dotenv format, one KEY=value per
// line, e.g. FS_DEFAULT_FS=hdfs://namenode:8020 or FS_IMPL_S3=s3. Lines
// starting with # are comments and values may be quoted.
type GodotenvProvider struct{}

// Read merges the settings of all filenames into one map, later files
// overriding earlier ones. Without filenames it reads .env.
func (*GodotenvProvider) Read(filenames ...string) (map[string]string, error) {
	data, err := godotenv.Read(filenames...)
	if err != nil {
		return data, fmt.Errorf("(config-godotenv) %w", err)
	}

	return data, nil
}
