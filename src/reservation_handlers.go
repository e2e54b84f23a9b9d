package main

import (
	"errors"
	"log"
	"net/http"
	"rbs/src/booking"
	"rbs/src/config"
	"rbs/src/types"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func renderEngineError(ctx *gin.Context, err error) {
	var validationErr *booking.ValidationError
	var notFoundErr *booking.NotFoundError
	var stateErr *booking.InvalidStateError
	var conflictErr *booking.ConflictError
	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &stateErr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": stateErr.Error()})
	case errors.As(err, &conflictErr):
		ctx.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error(), "conflicts": conflictErr.Conflicts})
	default:
		log.Printf("Could not complete request: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
	}
}

func parseFilters(ctx *gin.Context) (booking.Filter, error) {
	var params types.ReservationQueryFilters
	if err := ctx.ShouldBindQuery(&params); err != nil {
		return booking.Filter{}, err
	}
	var f booking.Filter
	if params.Resource != "" {
		id, err := strconv.Atoi(params.Resource)
		if err != nil {
			return f, err
		}
		f.ResourceID = uint(id)
	}
	if params.Tenant != "" {
		id, err := strconv.Atoi(params.Tenant)
		if err != nil {
			return f, err
		}
		f.TenantID = uint(id)
	}
	if params.Owner != "" {
		id, err := strconv.Atoi(params.Owner)
		if err != nil {
			return f, err
		}
		f.OwnerOrgID = uint(id)
	}
	if params.Statuses != "" {
		for _, s := range strings.Split(params.Statuses, ",") {
			f.Statuses = append(f.Statuses, types.ReservationStatus(strings.TrimSpace(s)))
		}
	}
	if params.From != "" {
		from, err := time.Parse(config.TIME_PARSE_FORMAT, params.From)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if params.To != "" {
		to, err := time.Parse(config.TIME_PARSE_FORMAT, params.To)
		if err != nil {
			return f, err
		}
		f.To = &to
	}
	return f, nil
}

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			start, err := time.Parse(config.TIME_PARSE_FORMAT, body.Start)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			end, err := time.Parse(config.TIME_PARSE_FORMAT, body.End)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := ctx.GetUint("org")
			userId := ctx.GetUint("id")
			reservation, err := getEngine().Create(ctx, booking.CreateParams{
				ResourceID:  body.ResourceID,
				TenantID:    tenantId,
				Start:       start,
				End:         end,
				RequestedBy: userId,
				ActivityID:  body.ActivityID,
				Notes:       body.Notes,
			})
			if err != nil {
				renderEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": reservation})
		}).
		GET("/reservations", func(ctx *gin.Context) {
			filter, err := parseFilters(ctx)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservations, err := getEngine().List(ctx, filter)
			if err != nil {
				renderEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservations, "count": len(reservations)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			reservation, err := getEngine().Get(ctx, params.ID)
			if err != nil {
				renderEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id/approve", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			reservation, err := getEngine().Approve(ctx, params.ID, ctx.GetUint("id"))
			if err != nil {
				renderEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id/deny", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.DenyReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := getEngine().Deny(ctx, params.ID, ctx.GetUint("id"), body.Reason)
			if err != nil {
				renderEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			reservation, err := getEngine().Cancel(ctx, params.ID, ctx.GetUint("id"))
			if err != nil {
				renderEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		})
	return g
}
