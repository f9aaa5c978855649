package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

// 海报上传上限 5MB
const MaxPosterSize = 5 << 20

var AllowedPosterTypes = []string{MimeImage, MimePDF}

const TooManyRequestsMessage = "Too many requests, please try again later"
