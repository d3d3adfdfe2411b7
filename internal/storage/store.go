package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/constants"

	"github.com/google/uuid"
)

var allowedBuckets = map[string]struct{}{
	constants.BucketProofs:  {},
	constants.BucketResults: {},
}

// ErrFileTooLarge 文件超过上传大小上限
// 必须在任何磁盘写入之前返回，保证零落盘副作用。
var ErrFileTooLarge = fmt.Errorf("file exceeds upload size limit")

// ErrTypeNotAllowed 文件类型不被允许
var ErrTypeNotAllowed = fmt.Errorf("file type not allowed")

// Store 桶式本地对象存储
// 目录布局 <dir>/<bucket>/<year>/<month>/<uuid><ext>，通过 /uploads 静态路由对外暴露。
type Store struct {
	cfg *config.Config
}

// NewStore 创建存储实例
func NewStore(cfg *config.Config) *Store {
	return &Store{cfg: cfg}
}

// Put 校验并保存上传文件，返回可公开访问的相对路径
// 大小上限在打开文件之前检查。
func (s *Store) Put(file *multipart.FileHeader, bucket string) (string, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d MB)", ErrFileTooLarge, file.Size, s.cfg.Upload.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return "", fmt.Errorf("%w: extension %q", ErrTypeNotAllowed, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 读取头部识别 MIME 类型
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", fmt.Errorf("%w: %s", ErrTypeNotAllowed, contentType)
		}
	}

	normalizedBucket := normalizeBucket(bucket)
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	savePath := filepath.Join(s.baseDir(), normalizedBucket, year, month, filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("/uploads/%s/%s/%s/%s", normalizedBucket, year, month, filename), nil
}

// PublicURL 拼接对外完整地址，未配置 base 时返回相对路径
func (s *Store) PublicURL(relPath string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Storage.PublicBaseURL), "/")
	if base == "" {
		return relPath
	}
	return base + relPath
}

// BaseDir 静态路由挂载用的根目录
func (s *Store) BaseDir() string {
	return s.baseDir()
}

func (s *Store) baseDir() string {
	dir := strings.TrimSpace(s.cfg.Storage.Dir)
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

func normalizeBucket(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedBuckets[value]; ok {
		return value
	}
	return constants.BucketProofs
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}
