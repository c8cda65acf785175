package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Imports    *ImportHandler
	Attendance *AttendanceHandler
	Reports    *ReportHandler
	Exports    *ExportHandler
	Settings   *SettingsHandler
	Roster     *RosterHandler
	Metrics    http.Handler
	Ready      gin.HandlerFunc
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Ready != nil {
		r.GET("/ready", h.Ready)
	}
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group(prefix)

	imports := api.Group("/imports")
	imports.POST("", h.Imports.Upload)
	imports.GET("/status", h.Imports.Status)
	imports.DELETE("/files/:name", h.Imports.RemoveFile)

	attendance := api.Group("/attendance")
	attendance.GET("", h.Attendance.List)
	attendance.PATCH("/:code/days/:day", h.Attendance.EditDay)
	attendance.PATCH("/:code/contract", h.Attendance.EditContract)
	attendance.PATCH("/:code/pension", h.Attendance.EditPension)
	attendance.PATCH("/:code/bonus", h.Attendance.EditBonus)

	api.DELETE("/validation-errors", h.Attendance.DismissAllValidationErrors)
	api.DELETE("/validation-errors/:key", h.Attendance.DismissValidationError)

	reports := api.Group("/reports")
	reports.GET("/business-lines", h.Reports.BusinessLines)
	reports.GET("/banks", h.Reports.Banks)
	reports.GET("/sites", h.Reports.Sites)
	reports.GET("/sources", h.Reports.Sources)
	reports.GET("/site-banks", h.Reports.SiteBanks)

	exports := api.Group("/exports")
	exports.GET("/attendance", h.Exports.Attendance)
	exports.GET("/payroll", h.Exports.Payroll)
	exports.GET("/analytics", h.Exports.Analytics)
	exports.GET("/site-banks", h.Exports.SiteBanks)

	api.GET("/settings", h.Settings.Get)
	api.PUT("/settings", h.Settings.Update)

	roster := api.Group("/roster")
	roster.GET("", h.Roster.List)
	roster.GET("/:dni", h.Roster.Get)
	roster.POST("", h.Roster.Create)
	roster.PUT("/:dni", h.Roster.Update)
	roster.DELETE("/:dni", h.Roster.Deactivate)
}
