package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"eaadss/config"
	"eaadss/pkg/assessment/types"
	fieldsvc "eaadss/pkg/field/service"
	"eaadss/pkg/soil"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "eaa-dss",
		Short:        "EAA soil decision support service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Load())
		},
	}
	root.AddCommand(serveCommand(), assessCommand())
	return root
}

func serveCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("[http] listening")
		errCh <- a.echo.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("[http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.echo.Shutdown(shutdownCtx)
}

type assessFlags struct {
	lat, lon  float64
	drawing   string
	phRange   string
	somRating string
	crop      string
	size      int
	db        string
}

func assessCommand() *cobra.Command {
	var f assessFlags
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run one assessment end to end and print the report as JSON",
		Example: `  eaa-dss assess --lat 26.55 --lon -80.65 --crop "Sunn Hemp"
  eaa-dss assess --drawing field.geojson --ph-range neutral --som-rating high --size 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := f.location(cmd)
			if err != nil {
				return err
			}
			cfg := config.Load()
			cfg.DBPath = f.db
			switch lvl, _ := cmd.Flags().GetString("log-level"); {
			case lvl != "":
				cfg.LogLevel = lvl
			case os.Getenv("LOG_LEVEL") == "":
				cfg.LogLevel = "error"
			}
			return runAssess(cmd.Context(), cfg, loc, f, cmd)
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&f.lat, "lat", 0, "latitude of the field (WGS84)")
	fl.Float64Var(&f.lon, "lon", 0, "longitude of the field (WGS84)")
	fl.StringVar(&f.drawing, "drawing", "", "drawn field boundary: a GeoJSON file path or inline GeoJSON")
	fl.StringVar(&f.phRange, "ph-range", "", "soil test pH range key (acidic, slightly_acidic, neutral, alkaline)")
	fl.StringVar(&f.somRating, "som-rating", "", "soil test organic matter rating (low, moderate, high)")
	fl.StringVar(&f.crop, "crop", types.DefaultCrop, "crop to plan")
	fl.IntVar(&f.size, "size", 0, "farm size in hectares (default: drawn area or 100)")
	fl.StringVar(&f.db, "db", ":memory:", "sqlite database to record the assessment in")
	fl.String("log-level", "", "log level (defaults to error so stdout stays JSON)")
	return cmd
}

func (f assessFlags) location(cmd *cobra.Command) (fieldsvc.LocationInput, error) {
	var in fieldsvc.LocationInput
	if d := strings.TrimSpace(f.drawing); d != "" {
		raw := []byte(d)
		if !strings.HasPrefix(d, "{") {
			b, err := os.ReadFile(d)
			if err != nil {
				return in, fmt.Errorf("read drawing: %w", err)
			}
			raw = b
		}
		in.Drawing = raw
		return in, nil
	}
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
		return in, errors.New("either --drawing or both --lat and --lon are required")
	}
	lat, lon := f.lat, f.lon
	in.Lat, in.Lon = &lat, &lon
	return in, nil
}

func runAssess(ctx context.Context, cfg config.AppConfig, loc fieldsvc.LocationInput, f assessFlags, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx = a.logger.WithContext(ctx)

	sid := uuid.NewString()
	as, err := a.assessments.Create(ctx, sid, &loc)
	if err != nil {
		return err
	}
	id := as.AssessmentID

	soilIn := types.SoilInput{
		HasTest: f.phRange != "" || f.somRating != "",
		Test:    soil.Test{PHRange: f.phRange, SOMRating: f.somRating},
	}
	if _, err := a.assessments.SubmitSoil(ctx, sid, id, soilIn); err != nil {
		return err
	}

	cropIn := types.CropInput{Crop: f.crop}
	if f.size != 0 {
		size := f.size
		cropIn.FarmSizeHa = &size
	}
	if _, err := a.assessments.PlanCrop(ctx, sid, id, cropIn); err != nil {
		return err
	}

	r, err := a.assessments.Report(ctx, sid, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
