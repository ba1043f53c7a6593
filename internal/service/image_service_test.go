package service

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"image-upload-server/internal/config"
	"image-upload-server/internal/testutils"
)

// 测试内容：验证计数与是否可添加基于实时数量，且剩余额度不为负。
func TestImageService_CountAndAdmission(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)

	count, err := env.images.GetImageCount(c.ID)
	if err != nil {
		t.Fatalf("GetImageCount: %v", err)
	}
	if count.CurrentCount != 0 || !count.CanAddMore || count.RemainingSlots != 10 || count.MaxAllowed != 10 {
		t.Fatalf("非预期计数: %+v", count)
	}

	png := testutils.PNGBytes(t)
	for i := 0; i < 9; i++ {
		if _, err := env.images.Upload(pngRequest(c.ID, i), png); err != nil {
			t.Fatalf("第 %d 次上传失败: %v", i, err)
		}
	}
	ok, err := env.images.CanAddImage(c.ID)
	if err != nil || !ok {
		t.Fatalf("9 张时期望仍可添加，实际为 %v (%v)", ok, err)
	}

	if _, err := env.images.Upload(pngRequest(c.ID, 9), png); err != nil {
		t.Fatalf("第 10 次上传失败: %v", err)
	}
	count, _ = env.images.GetImageCount(c.ID)
	if count.CurrentCount != 10 || count.CanAddMore || count.RemainingSlots != 0 {
		t.Fatalf("10 张时非预期计数: %+v", count)
	}
}

// 测试内容：验证已有 10 张图片时第 11 次上传返回数量上限错误且不写入。
func TestImageService_EleventhUploadRejected(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	png := testutils.PNGBytes(t)

	for i := 0; i < 10; i++ {
		if _, err := env.images.Upload(pngRequest(c.ID, i), png); err != nil {
			t.Fatalf("第 %d 次上传失败: %v", i, err)
		}
	}

	img, err := env.images.Upload(pngRequest(c.ID, 10), png)
	if img != nil {
		t.Fatalf("期望返回 nil 图片")
	}
	requireCode(t, err, ErrorCodeLimitReached)
	if n := env.countRows(t, c.ID); n != 10 {
		t.Fatalf("期望仍为 10 张，实际为 %d", n)
	}
}

// 测试内容：验证串行上传时数量始终不超过上限。
func TestImageService_SerialUploadsNeverExceedLimit(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	png := testutils.PNGBytes(t)

	limited := 0
	for i := 0; i < 15; i++ {
		if _, err := env.images.Upload(pngRequest(c.ID, i), png); err != nil {
			requireCode(t, err, ErrorCodeLimitReached)
			limited++
		}
		if n := env.countRows(t, c.ID); n > 10 {
			t.Fatalf("数量超过上限: %d", n)
		}
	}
	if limited != 5 {
		t.Fatalf("期望 5 次被拒绝，实际为 %d", limited)
	}
}

// 测试内容：验证不在白名单内的类型被拒绝且不写入记录。
func TestImageService_RejectsContentType(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)

	for _, ct := range []string{"image/bmp", "application/pdf", "text/plain", ""} {
		req := UploadRequest{CustomerID: c.ID, FileName: "x.bin", ContentType: ct}
		_, err := env.images.Upload(req, testutils.PNGBytes(t))
		requireCode(t, err, ErrorCodeValidation)
	}
	if n := env.countRows(t, c.ID); n != 0 {
		t.Fatalf("期望无记录，实际为 %d", n)
	}

	// 大小写不敏感
	req := UploadRequest{CustomerID: c.ID, FileName: "x.png", ContentType: "IMAGE/PNG"}
	img, err := env.images.Upload(req, testutils.PNGBytes(t))
	if err != nil {
		t.Fatalf("期望大写类型被接受: %v", err)
	}
	if img.ContentType != "image/png" {
		t.Fatalf("期望保存为小写类型，实际为 %q", img.ContentType)
	}
}

// 测试内容：验证 6MiB 的 JPEG 超过 5MiB 上限被拒绝，4MiB 被接受且大小字段精确。
func TestImageService_SizeLimit(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	req := UploadRequest{CustomerID: c.ID, FileName: "big.jpg", ContentType: "image/jpeg"}

	_, err := env.images.Upload(req, testutils.JPEGHeaderPadded(6*mib))
	requireCode(t, err, ErrorCodeValidation)
	if n := env.countRows(t, c.ID); n != 0 {
		t.Fatalf("期望无记录，实际为 %d", n)
	}

	img, err := env.images.Upload(req, testutils.JPEGHeaderPadded(4*mib))
	if err != nil {
		t.Fatalf("4MiB 上传失败: %v", err)
	}
	if img.FileSizeBytes != 4*1048576 {
		t.Fatalf("期望大小为 %d，实际为 %d", 4*1048576, img.FileSizeBytes)
	}
}

// 测试内容：验证 base64 超限时在解码前被拒绝。
func TestImageService_Base64SizeLimit(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)

	encoded := base64.StdEncoding.EncodeToString(testutils.JPEGHeaderPadded(6 * mib))
	_, err := env.images.UploadBase64(UploadRequest{CustomerID: c.ID, FileName: "big.jpg", ContentType: "image/jpeg"}, encoded)
	requireCode(t, err, ErrorCodeValidation)
}

// 测试内容：验证 base64 往返后内容与长度保持一致，且支持 data URL 前缀。
func TestImageService_Base64RoundTrip(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	raw := testutils.PNGBytes(t)
	encoded := base64.StdEncoding.EncodeToString(raw)

	img, err := env.images.UploadBase64(UploadRequest{CustomerID: c.ID, FileName: "a.png", ContentType: "image/png"}, encoded)
	if err != nil {
		t.Fatalf("UploadBase64: %v", err)
	}
	if img.FileSizeBytes != int64(len(raw)) {
		t.Fatalf("期望大小 %d，实际为 %d", len(raw), img.FileSizeBytes)
	}
	if !img.IsInline() || img.IsFilesystem() {
		t.Fatalf("期望行内存储")
	}

	_, data, err := env.images.LoadContent(img.ID)
	if err != nil {
		t.Fatalf("LoadContent: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("往返后内容不一致")
	}

	withPrefix, err := env.images.UploadBase64(UploadRequest{CustomerID: c.ID, FileName: "b.png"}, "data:image/png;base64,"+encoded)
	if err != nil {
		t.Fatalf("data URL 上传失败: %v", err)
	}
	if withPrefix.ContentType != "image/png" || withPrefix.FileSizeBytes != int64(len(raw)) {
		t.Fatalf("非预期图片: %+v", withPrefix)
	}
}

// 测试内容：验证无法解码的 base64 返回格式错误。
func TestImageService_MalformedBase64(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)

	_, err := env.images.UploadBase64(UploadRequest{CustomerID: c.ID, FileName: "a.png", ContentType: "image/png"}, "@@@@not-base64@@@@")
	requireCode(t, err, ErrorCodeValidation)
	if n := env.countRows(t, c.ID); n != 0 {
		t.Fatalf("期望无记录，实际为 %d", n)
	}
}

// 测试内容：验证校验顺序：客户不存在优先于其它错误，空内容优先于类型错误。
func TestImageService_ValidationOrder(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)

	_, err := env.images.Upload(UploadRequest{CustomerID: 999, FileName: "a.bmp", ContentType: "image/bmp"}, nil)
	requireCode(t, err, ErrorCodeNotFound)

	c := env.customer(t)
	_, err = env.images.Upload(UploadRequest{CustomerID: c.ID, FileName: "a.bmp", ContentType: "image/bmp"}, nil)
	requireCode(t, err, ErrorCodeValidation)
	if se, _ := AsServiceError(err); se.Message != "未提供图片内容" {
		t.Fatalf("期望空内容错误，实际为 %q", se.Message)
	}
}

// 测试内容：验证文件头与声明类型不符时被拒绝。
func TestImageService_ContentMismatch(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)

	_, err := env.images.Upload(UploadRequest{CustomerID: c.ID, FileName: "fake.png", ContentType: "image/png"}, []byte("definitely not an image"))
	requireCode(t, err, ErrorCodeValidation)
}

// 测试内容：验证真实图片但声明为另一种白名单类型时被拒绝且不落库，image/jpg 视同 image/jpeg。
func TestImageService_DeclaredTypeMustMatchContent(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)

	_, err := env.images.Upload(UploadRequest{CustomerID: c.ID, FileName: "a.gif", ContentType: "image/gif"}, testutils.PNGBytes(t))
	requireCode(t, err, ErrorCodeValidation)
	if se, _ := AsServiceError(err); !strings.Contains(se.Message, "image/png") {
		t.Fatalf("期望错误信息包含识别结果 image/png，实际为 %q", se.Message)
	}
	if n := env.countRows(t, c.ID); n != 0 {
		t.Fatalf("期望无记录，实际为 %d", n)
	}

	img, err := env.images.Upload(UploadRequest{CustomerID: c.ID, FileName: "a.jpg", ContentType: "image/jpg"}, testutils.JPEGHeaderPadded(256))
	if err != nil {
		t.Fatalf("image/jpg 上传失败: %v", err)
	}
	if img.ContentType != "image/jpg" {
		t.Fatalf("期望保存声明的类型 image/jpg，实际为 %q", img.ContentType)
	}
}

// 测试内容：验证按 76 列折行（CRLF）的 base64 可以正常解码，大小按解码结果计算。
func TestImageService_WrappedBase64(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	raw := testutils.JPEGHeaderPadded(1000)

	encoded := base64.StdEncoding.EncodeToString(raw)
	var wrapped strings.Builder
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		wrapped.WriteString(encoded[i:end])
		wrapped.WriteString("\r\n")
	}

	img, err := env.images.UploadBase64(UploadRequest{CustomerID: c.ID, FileName: "a.jpg", ContentType: "image/jpeg"}, wrapped.String())
	if err != nil {
		t.Fatalf("折行 base64 上传失败: %v", err)
	}
	if img.FileSizeBytes != int64(len(raw)) {
		t.Fatalf("期望大小 %d，实际为 %d", len(raw), img.FileSizeBytes)
	}
}

// 测试内容：验证 multipart 文件上传使用文件头中的类型。
func TestImageService_UploadFile(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	desc := "  front view  "

	fh := mustFileHeader(t, "a.png", "image/png", testutils.PNGBytes(t))
	img, err := env.images.UploadFile(c.ID, fh, &desc)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if img.FileName != "a.png" || img.Description == nil || *img.Description != "front view" {
		t.Fatalf("非预期图片: %+v", img)
	}
	if img.UploadedAt.Location().String() != "UTC" {
		t.Fatalf("期望上传时间为 UTC，实际为 %s", img.UploadedAt.Location())
	}

	fh = mustFileHeader(t, "a.txt", "text/plain", []byte("hello"))
	_, err = env.images.UploadFile(c.ID, fh, nil)
	requireCode(t, err, ErrorCodeValidation)
}

// 测试内容：验证磁盘存储会写入文件，删除图片会移除文件，二次删除返回不存在。
func TestImageService_FilesystemDeleteIdempotent(t *testing.T) {
	env := newTestEnv(t, config.StorageFilesystem)
	c := env.customer(t)

	img, err := env.images.Upload(pngRequest(c.ID, 0), testutils.PNGBytes(t))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !img.IsFilesystem() || img.IsInline() {
		t.Fatalf("期望磁盘存储")
	}
	onDisk := filepath.Join(env.root, filepath.FromSlash(*img.FilePath))
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("期望文件存在: %v", err)
	}

	found, err := env.images.DeleteImage(img.ID)
	if err != nil || !found {
		t.Fatalf("期望删除成功，实际为 %v (%v)", found, err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("期望文件已删除，实际为 %v", err)
	}

	found, err = env.images.DeleteImage(img.ID)
	if err != nil || found {
		t.Fatalf("期望二次删除返回不存在，实际为 %v (%v)", found, err)
	}
}

// 测试内容：验证磁盘文件已丢失时删除图片仍然成功。
func TestImageService_DeleteMissingFile(t *testing.T) {
	env := newTestEnv(t, config.StorageFilesystem)
	c := env.customer(t)

	img, err := env.images.Upload(pngRequest(c.ID, 0), testutils.PNGBytes(t))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := os.Remove(filepath.Join(env.root, filepath.FromSlash(*img.FilePath))); err != nil {
		t.Fatalf("预先删除文件失败: %v", err)
	}

	found, err := env.images.DeleteImage(img.ID)
	if err != nil || !found {
		t.Fatalf("期望删除成功，实际为 %v (%v)", found, err)
	}

	_, _, err = env.images.LoadContent(img.ID)
	requireCode(t, err, ErrorCodeNotFound)
}

// 测试内容：验证图片查询带出所属客户，列表按上传顺序返回。
func TestImageService_GetAndList(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	png := testutils.PNGBytes(t)

	first, _ := env.images.Upload(pngRequest(c.ID, 0), png)
	second, _ := env.images.Upload(pngRequest(c.ID, 1), png)

	got, err := env.images.GetImage(first.ID)
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if got.Customer == nil || got.Customer.ID != c.ID {
		t.Fatalf("期望带出所属客户")
	}

	list, err := env.images.ListCustomerImages(c.ID)
	if err != nil {
		t.Fatalf("ListCustomerImages: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("非预期列表顺序: %+v", list)
	}

	_, err = env.images.GetImage(9999)
	requireCode(t, err, ErrorCodeNotFound)
}

// 测试内容：验证磁盘图片也能以 base64 形式返回。
func TestImageService_GetBase64Filesystem(t *testing.T) {
	env := newTestEnv(t, config.StorageFilesystem)
	c := env.customer(t)
	raw := testutils.PNGBytes(t)

	img, err := env.images.Upload(pngRequest(c.ID, 0), raw)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	got, err := env.images.GetBase64(img.ID)
	if err != nil {
		t.Fatalf("GetBase64: %v", err)
	}
	if got.Base64Data != base64.StdEncoding.EncodeToString(raw) || got.ContentType != "image/png" {
		t.Fatalf("非预期结果: %+v", got)
	}
}

// 测试内容：记录并发上传时数量检查与写入之间的竞争。
// 检查不加锁，因此只断言每次结果要么成功要么达到上限，不断言总数严格不超过 10。
func TestImageService_ConcurrentUploadsQuotaIsAdvisory(t *testing.T) {
	env := newTestEnv(t, config.StorageInline)
	c := env.customer(t)
	png := testutils.PNGBytes(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.images.Upload(pngRequest(c.ID, i), png)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil && !IsCode(err, ErrorCodeLimitReached) {
			t.Fatalf("非预期错误: %v", err)
		}
	}
	if n := env.countRows(t, c.ID); n < 10 {
		t.Fatalf("期望至少写入 10 张，实际为 %d", n)
	}
}
