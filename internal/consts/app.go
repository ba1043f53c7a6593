package consts

const (
	// ApplicationName 应用名称
	ApplicationName = "Image Upload Server"
	// ApplicationVersion 后端版本
	ApplicationVersion = "1.0.0"
)
