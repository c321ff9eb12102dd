package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sstent/foodplanner-sub000/services"
	"github.com/sstent/foodplanner-sub000/utils"
)

// AdminController exposes database backup and restore.
type AdminController struct {
	backups *services.BackupService
}

func NewAdminController(backups *services.BackupService) *AdminController {
	return &AdminController{backups: backups}
}

func (ctl *AdminController) Backup(c *gin.Context) {
	if !utils.BackupConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backup storage is not configured"})
		return
	}
	key, err := ctl.backups.Backup()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (ctl *AdminController) ListBackups(c *gin.Context) {
	if !utils.BackupConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backup storage is not configured"})
		return
	}
	keys, err := ctl.backups.ListBackups()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": keys})
}

func (ctl *AdminController) Restore(c *gin.Context) {
	if !utils.BackupConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backup storage is not configured"})
		return
	}
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctl.backups.Restore(req.Key); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": req.Key})
}
