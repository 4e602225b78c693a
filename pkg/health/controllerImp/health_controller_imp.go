package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"eaadss/pkg/geo"
)

var appStart = time.Now()

type HealthCtrl struct {
	db     *gorm.DB
	region *geo.Region
}

func NewHealthCtrl(db *gorm.DB, region *geo.Region) *HealthCtrl {
	return &HealthCtrl{db: db, region: region}
}

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := check{OK: true}
	if h.db == nil {
		db = check{Err: "gorm db is nil"}
	} else if sqlDB, err := h.db.DB(); err != nil {
		db = check{Err: "db.DB(): " + err.Error()}
	} else if err := sqlDB.PingContext(ctx); err != nil {
		db = check{Err: "ping: " + err.Error()}
	}

	region := check{OK: h.region != nil}
	if !region.OK {
		region.Err = "boundary not loaded"
	}

	allOK := db.OK && region.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": db,
			"boundary": region,
		},
		"time": time.Now().Format(time.RFC3339),
	})
}
