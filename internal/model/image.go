package model

import "time"

// Image 客户上传的图片。二进制内容只会以一种方式保存：
// FilePath（磁盘路径，旧方案）或 Base64Data（行内 base64，当前方案）。
type Image struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CustomerID    uint      `json:"customerId" gorm:"not null;index"`
	FileName      string    `json:"fileName" gorm:"size:255;not null"`
	FilePath      *string   `json:"-" gorm:"size:500"`
	ContentType   string    `json:"contentType" gorm:"size:100;not null"`
	FileSizeBytes int64     `json:"fileSizeBytes" gorm:"not null"`
	UploadedAt    time.Time `json:"uploadedAt" gorm:"not null;index"`
	Description   *string   `json:"description,omitempty" gorm:"size:500"`
	Base64Data    *string   `json:"base64Data,omitempty" gorm:"size:10485760"`
	Customer      *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;references:ID"`
}

// IsFilesystem 是否为磁盘存储的图片
func (i *Image) IsFilesystem() bool {
	return i.FilePath != nil && *i.FilePath != ""
}

// IsInline 是否为行内 base64 存储的图片
func (i *Image) IsInline() bool {
	return i.Base64Data != nil && *i.Base64Data != ""
}
