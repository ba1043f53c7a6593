// Package handler 前端页面的 gin 处理器，页面模板内嵌在二进制中。
package handler

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"image-upload-server/internal/dto"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/middleware"
	"image-upload-server/internal/web/service"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	customers *service.CustomerService
	images    *service.ImageService
}

func New(customers *service.CustomerService, images *service.ImageService) *Handler {
	return &Handler{customers: customers, images: images}
}

// Templates 解析内嵌模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"imageSrc":  imageSrc,
		"deref":     deref,
		"humanSize": humanSize,
		"localTime": localTime,
	}).ParseFS(templateFS, "templates/*.html")
}

// NewEngine 组装前端服务使用的 gin 引擎
func NewEngine(h *Handler) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AccessLog(logging.SourceWeb))
	r.Use(middleware.SecurityHeaders())
	r.SetHTMLTemplate(tmpl)
	h.Register(r)
	return r, nil
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/customers") })

	customers := r.Group("/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/new", h.NewCustomer)
		customers.POST("", h.CreateCustomer)
		customers.GET("/:id", h.CustomerDetail)
		customers.GET("/:id/edit", h.EditCustomer)
		customers.POST("/:id", h.UpdateCustomer)
		customers.POST("/:id/delete", h.DeleteCustomer)
		customers.POST("/:id/images", h.UploadImages)
		customers.POST("/:id/images/:imageId/delete", h.DeleteImage)
	}
	r.GET("/images/:id/raw", h.RawImage)
}

// page 所有页面共用的数据
type page struct {
	Title   string
	Message string
	Errors  []string
}

func flashFrom(c *gin.Context, title string) page {
	return page{Title: title, Message: c.Query("msg"), Errors: c.QueryArray("err")}
}

// redirectWith 通过查询参数携带提示信息跳转
func redirectWith(c *gin.Context, path, msg string, errs ...string) {
	q := url.Values{}
	if msg != "" {
		q.Set("msg", msg)
	}
	for _, e := range errs {
		q.Add("err", e)
	}
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	c.Redirect(http.StatusSeeOther, path)
}

func renderError(c *gin.Context, status int, msg string, errs ...string) {
	c.HTML(status, "error.html", gin.H{"Page": page{Title: "出错了", Message: msg, Errors: errs}})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		renderError(c, http.StatusBadRequest, "无效的 ID")
		return 0, false
	}
	return uint(id), true
}

func customerPath(id uint) string {
	return "/customers/" + strconv.FormatUint(uint64(id), 10)
}

func customerFromForm(c *gin.Context) dto.CustomerRequest {
	req := dto.CustomerRequest{
		FirstName: strings.TrimSpace(c.PostForm("firstName")),
		LastName:  strings.TrimSpace(c.PostForm("lastName")),
	}
	if v := strings.TrimSpace(c.PostForm("email")); v != "" {
		req.Email = &v
	}
	if v := strings.TrimSpace(c.PostForm("phone")); v != "" {
		req.Phone = &v
	}
	return req
}

// imageSrc data URL 需要显式标记为可信，否则会被模板替换为 #ZgotmplZ
func imageSrc(image dto.ImageResponse) template.URL {
	return template.URL(service.ImageSrc(image))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func humanSize(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/1024/1024)
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func localTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
