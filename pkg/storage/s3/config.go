package s3

// Config holds S3 source configuration
type Config struct {
	Endpoint       string `json:"endpoint"`   // Optional: for MinIO and friends
	Region         string `json:"region"`     // AWS region
	Bucket         string `json:"bucket"`     // S3 bucket name
	Prefix         string `json:"prefix"`     // Object key prefix
	AccessKey      string `json:"access_key"` // Credentials
	SecretKey      string `json:"secret_key"`
	ForcePathStyle bool   `json:"force_path_style"` // For MinIO
}
