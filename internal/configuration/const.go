package configuration

const (
	// SettingDefaultFS is the key for [Configuration.DefaultFS].
	SettingDefaultFS = "FS_DEFAULT_FS"

	// SettingImplPrefix prefixes the keys mapping a scheme to an
	// implementation, e.g. FS_IMPL_HDFS=webhdfs.
	SettingImplPrefix = "FS_IMPL_"

	// SettingWebHDFSAddress is the key for [WebHDFSConfiguration.Address].
	SettingWebHDFSAddress = "WEBHDFS_ADDRESS"

	// SettingWebHDFSPort is the key for [WebHDFSConfiguration.Port].
	SettingWebHDFSPort = "WEBHDFS_PORT"

	// SettingWebHDFSUser is the key for [WebHDFSConfiguration.User].
	SettingWebHDFSUser = "WEBHDFS_USER"

	// SettingWebHDFSTimeout is the key for [WebHDFSConfiguration.Timeout],
	// given as a Go duration string. "0s" disables the timeout.
	SettingWebHDFSTimeout = "WEBHDFS_TIMEOUT"

	// SettingS3Endpoint is the key for [S3Configuration.Endpoint].
	SettingS3Endpoint = "S3_ENDPOINT"

	// SettingS3Region is the key for [S3Configuration.Region].
	SettingS3Region = "S3_REGION"

	// SettingS3AccessKey is the key for [S3Configuration.AccessKeyID].
	SettingS3AccessKey = "S3_ACCESS_KEY"

	// SettingS3SecretKey is the key for [S3Configuration.SecretAccessKey].
	SettingS3SecretKey = "S3_SECRET_KEY" //nolint:gosec

	// SettingS3UseSSL is the key for [S3Configuration.UseSSL].
	SettingS3UseSSL = "S3_USE_SSL"
)
