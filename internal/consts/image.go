package consts

const (
	// MaxImagesPerCustomer 每个客户最多可保存的图片数量
	MaxImagesPerCustomer = 10

	// MaxBatchUploadFiles 单次批量上传允许的最大文件数
	MaxBatchUploadFiles = 20

	// MaxFileNameLength 文件名最大长度
	MaxFileNameLength = 255

	// MaxContentTypeLength Content-Type 最大长度
	MaxContentTypeLength = 100

	// MaxDescriptionLength 图片描述最大长度
	MaxDescriptionLength = 500
)

// AllowedImageContentTypes 允许上传的图片类型（小写精确匹配）
var AllowedImageContentTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}
