package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"molin/internal/store"
	"molin/internal/utils"
)

// 允许的图片扩展名
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageService 保存文章附图。只负责把二进制落到外部存储目录并
// 返回相对路径引用,数据库里只存这个引用,图片访问走静态文件路由。
type ImageService struct {
	baseDir string
}

func NewImageService(baseDir string) *ImageService {
	return &ImageService{baseDir: baseDir}
}

// SaveUpload 保存上传的图片,返回相对路径,如 posts/a1b2c3d4.png
func (s *ImageService) SaveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", store.ErrValidation, ext)
	}

	dir := filepath.Join(s.baseDir, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := utils.RandString(12) + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return "posts/" + name, nil
}
