package main

import (
	"net/http"
	"rbs/src/config"
	"rbs/src/db"
	"rbs/src/models"
	"rbs/src/types"
	"time"

	"github.com/gin-gonic/gin"
)

func resourceHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/resources", func(ctx *gin.Context) {
			orgId := ctx.GetUint("org")
			db := db.GetDb()
			var resources []models.Resource
			err := db.
				Model(&models.Resource{}).
				Where("organization_id = ? OR poolable = ?", orgId, true).
				Order("name asc").
				Find(&resources).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": resources, "count": len(resources)})
		}).
		GET("/resources/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			start, err := time.Parse(config.TIME_PARSE_FORMAT, query.Start)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			end, err := time.Parse(config.TIME_PARSE_FORMAT, query.End)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			availability, err := getEngine().CheckAvailability(ctx, params.ID, start, end, query.Exclude)
			if err != nil {
				renderEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": availability})
		})
	return g
}
