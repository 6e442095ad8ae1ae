package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maskkit/config"
	"maskkit/model"
	"maskkit/service"
	"maskkit/utils"
)

type VerifyHandler struct {
	cfg      *config.Config
	cache    *service.ReportCache
	verifier *service.Verifier
}

func NewVerifyHandler(cfg *config.Config, cache *service.ReportCache, verifier *service.Verifier) *VerifyHandler {
	return &VerifyHandler{
		cfg:      cfg,
		cache:    cache,
		verifier: verifier,
	}
}

// Verify 处理掩码上传并返回解码差分报告
func (h *VerifyHandler) Verify(c *gin.Context) {
	up, ok := saveUpload(c, h.cfg, "mask", "掩码")
	if !ok {
		return
	}
	defer cleanupUpload(h.cfg, up.Path)

	utils.Logger.Info("mask uploaded",
		zap.String("path", up.Path),
		zap.String("md5", up.MD5),
		zap.Int64("size", up.Size))

	// 检查缓存
	ctx := context.Background()
	cached, err := h.cache.GetReport(ctx, up.MD5)
	if err != nil {
		utils.Logger.Warn("failed to get cache", zap.Error(err))
	}
	if cached != nil {
		utils.Logger.Info("cache hit", zap.String("md5", up.MD5))
		c.JSON(http.StatusOK, model.VerifyResponse{
			Success: true,
			Message: "校验成功（来自缓存）",
			Data:    cached,
		})
		return
	}

	// 执行解码差分
	report, err := h.verifier.Verify(up.Path)
	if err != nil {
		utils.Logger.Error("failed to verify mask", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "掩码校验失败",
			Error:   err.Error(),
		})
		return
	}
	report.MD5 = up.MD5

	// 保存到缓存
	if err := h.cache.SetReport(ctx, up.MD5, report); err != nil {
		utils.Logger.Warn("failed to set cache", zap.Error(err))
	}

	c.JSON(http.StatusOK, model.VerifyResponse{
		Success: true,
		Message: "校验成功",
		Data:    report,
	})
}

// Report 根据MD5查询缓存的校验报告
func (h *VerifyHandler) Report(c *gin.Context) {
	md5 := c.Param("md5")
	if md5 == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "MD5参数缺失",
		})
		return
	}

	ctx := context.Background()
	report, err := h.cache.GetReport(ctx, md5)
	if err != nil {
		utils.Logger.Error("failed to get verify report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "查询失败",
			Error:   err.Error(),
		})
		return
	}

	if report == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "未找到该掩码的校验报告",
		})
		return
	}

	c.JSON(http.StatusOK, model.VerifyResponse{
		Success: true,
		Message: "查询成功",
		Data:    report,
	})
}
