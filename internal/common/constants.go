package common

const (
	// AppName is used for data directories and environment variable prefixes
	AppName = "pdfslim"

	// File operation constants
	DefaultFilePermissions = 0755

	// OutputTimestampFormat makes compressed file names unique per run
	OutputTimestampFormat = "20060102_150405"
)
