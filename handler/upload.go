package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maskkit/config"
	"maskkit/model"
	"maskkit/utils"
)

// savedUpload 一次已落盘的上传文件
type savedUpload struct {
	Path string
	MD5  string
	Size int64
}

// saveUpload 校验并保存 multipart 表单里的上传文件。
// 校验失败时直接写响应并返回 false，label 用于提示语（如 "掩码"）。
func saveUpload(c *gin.Context, cfg *config.Config, field, label string) (*savedUpload, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		utils.Logger.Error("failed to get uploaded file",
			zap.String("field", field), zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("请上传%s文件", label),
			Error:   err.Error(),
		})
		return nil, false
	}

	// 验证文件大小
	if file.Size > cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("文件大小超过限制 (%d MB)", cfg.Upload.MaxSize/(1024*1024)),
		})
		return nil, false
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if !isAllowedType(cfg, contentType) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "不支持的文件类型，仅支持 PNG/JPEG/BMP/TIFF",
		})
		return nil, false
	}

	// 生成文件名并保存
	ext := filepath.Ext(file.Filename)
	savePath := filepath.Join(cfg.Upload.UploadDir, field+"_"+utils.TempName(ext))
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		utils.Logger.Error("failed to save file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "保存文件失败",
			Error:   err.Error(),
		})
		return nil, false
	}

	// 计算MD5
	md5, err := utils.FileMD5(savePath)
	if err != nil {
		utils.Logger.Error("failed to calculate md5", zap.Error(err))
		os.Remove(savePath)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "计算文件哈希失败",
			Error:   err.Error(),
		})
		return nil, false
	}

	return &savedUpload{Path: savePath, MD5: md5, Size: file.Size}, true
}

// cleanupUpload 按配置删除处理完的临时文件
func cleanupUpload(cfg *config.Config, path string) {
	if !cfg.Verify.CleanupTempFiles {
		return
	}
	if err := os.Remove(path); err != nil {
		utils.Logger.Warn("failed to delete temp file",
			zap.String("file", path),
			zap.Error(err))
	} else {
		utils.Logger.Debug("temp file deleted",
			zap.String("file", path))
	}
}

func isAllowedType(cfg *config.Config, contentType string) bool {
	for _, allowed := range cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
