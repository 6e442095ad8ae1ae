package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maskkit/config"
	"maskkit/model"
	"maskkit/service"
	"maskkit/utils"
)

type OverlayHandler struct {
	cfg       *config.Config
	colorizer *service.Colorizer
}

func NewOverlayHandler(cfg *config.Config, colorizer *service.Colorizer) *OverlayHandler {
	return &OverlayHandler{
		cfg:       cfg,
		colorizer: colorizer,
	}
}

// Overlay 处理图片和掩码上传，返回背景上色后的 PNG 预览
func (h *OverlayHandler) Overlay(c *gin.Context) {
	img, ok := saveUpload(c, h.cfg, "image", "图片")
	if !ok {
		return
	}
	defer cleanupUpload(h.cfg, img.Path)

	mask, ok := saveUpload(c, h.cfg, "mask", "掩码")
	if !ok {
		return
	}
	defer cleanupUpload(h.cfg, mask.Path)

	color, err := model.BGRFromSlice(h.cfg.Overlay.Color)
	if err != nil {
		utils.Logger.Warn("invalid overlay color in config, using default", zap.Error(err))
		color = model.DefaultOverlayColor
	}
	if s := c.DefaultPostForm("color", ""); s != "" {
		parsed, err := model.ParseBGRColor(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Message: "颜色格式错误，应为 B,G,R",
				Error:   err.Error(),
			})
			return
		}
		color = parsed
	}

	utils.Logger.Info("overlay requested",
		zap.String("image", img.Path),
		zap.String("mask", mask.Path))

	data, width, height, err := h.colorizer.ColorizeToPNG(img.Path, mask.Path, color)
	if err != nil {
		utils.Logger.Error("failed to colorize image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "图片上色失败",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.OverlayResponse{
		Success: true,
		Message: "上色成功",
		Image:   base64.StdEncoding.EncodeToString(data),
		Width:   width,
		Height:  height,
	})
}
