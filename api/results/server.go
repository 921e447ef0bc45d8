// Package results serves finished simulation runs to dashboards: the fleet
// layout, the latest result with its KPI report, per-asset trajectories for
// charting and an endpoint that triggers new runs with overrides.
package results

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fleetsim/core/analysis"
	"fleetsim/core/model"
	"fleetsim/core/sim"
	"fleetsim/infra/logger"
	"fleetsim/market"
)

// Server holds the configured fleet and the latest finished run. Simulations
// triggered over HTTP run on fleet copies, so concurrent requests never
// share mutable state.
type Server struct {
	fleet      *model.Fleet
	limits     model.FleetConstraints
	resolution time.Duration
	genParams  market.GeneratorParams
	log        logger.Logger

	mu     sync.RWMutex
	latest *model.SimulationResult
	report analysis.Report
}

// NewServer builds the API server around a validated fleet. genParams supply
// the price curve for runs triggered without explicit prices.
func NewServer(fleet *model.Fleet, limits model.FleetConstraints, resolution time.Duration, genParams market.GeneratorParams) *Server {
	return &Server{
		fleet:      fleet,
		limits:     limits,
		resolution: resolution,
		genParams:  genParams,
		log:        logger.New("results-api"),
	}
}

// SetResult publishes a finished run to the API.
func (s *Server) SetResult(res *model.SimulationResult) {
	rep := analysis.Compute(s.fleet, res)
	s.mu.Lock()
	s.latest = res
	s.report = rep
	s.mu.Unlock()
}

// Router assembles the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	if strings.ToLower(os.Getenv("APP_ENV")) != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/fleet", s.getFleet)
		api.GET("/results", s.getResult)
		api.GET("/results/summary", s.getSummary)
		api.GET("/results/series/:asset", s.getSeries)
		api.POST("/simulate", s.postSimulate)
	}
	return router
}

// Start serves the API until the context is canceled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("results api listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) getFleet(c *gin.Context) {
	resp := fleetResponse{
		Assets:           make([]assetView, len(s.fleet.Assets)),
		TotalCapacityMWh: s.fleet.TotalCapacityMWh(),
	}
	for i, a := range s.fleet.Assets {
		resp.Assets[i] = assetView{
			ID:                  a.ID,
			CapacityMWh:         a.CapacityMWh,
			MaxChargeMW:         a.MaxChargeMW,
			MaxDischargeMW:      a.MaxDischargeMW,
			ChargeEfficiency:    a.ChargeEfficiency,
			DischargeEfficiency: a.DischargeEfficiency,
			ChargeThreshold:     a.ChargeThreshold,
			DischargeThreshold:  a.DischargeThreshold,
			InitialSoeMWh:       a.InitialSoeMWh,
		}
	}
	if s.limits.MaxChargeMW != model.Unbounded {
		v := s.limits.MaxChargeMW
		resp.MaxChargeMW = &v
	}
	if s.limits.MaxDischargeMW != model.Unbounded {
		v := s.limits.MaxDischargeMW
		resp.MaxDischargeMW = &v
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getResult(c *gin.Context) {
	s.mu.RLock()
	res := s.latest
	s.mu.RUnlock()
	if res == nil {
		abortError(c, http.StatusNotFound, "NO_RESULT", "no simulation has completed yet")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getSummary(c *gin.Context) {
	s.mu.RLock()
	res, rep := s.latest, s.report
	s.mu.RUnlock()
	if res == nil {
		abortError(c, http.StatusNotFound, "NO_RESULT", "no simulation has completed yet")
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) getSeries(c *gin.Context) {
	id := c.Param("asset")
	idx := -1
	for i, a := range s.fleet.Assets {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		abortError(c, http.StatusNotFound, "UNKNOWN_ASSET", "no asset with id "+id)
		return
	}

	s.mu.RLock()
	res := s.latest
	s.mu.RUnlock()
	if res == nil {
		abortError(c, http.StatusNotFound, "NO_RESULT", "no simulation has completed yet")
		return
	}

	resp := seriesResponse{
		RunID:   res.RunID,
		AssetID: id,
		Points:  make([]seriesPoint, len(res.Records)),
	}
	for i, rec := range res.Records {
		a := rec.Assets[idx]
		resp.Points[i] = seriesPoint{
			Timestamp:  rec.Timestamp,
			Mode:       a.Mode,
			PriceMWh:   rec.PriceMWh,
			PowerMW:    a.PowerMW,
			SoeMWh:     a.SoeAfterMWh,
			Revenue:    a.Revenue,
			CumRevenue: a.CumRevenue,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postSimulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	fleet, err := s.fleetWith(req)
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}
	prices, err := s.pricesFor(req)
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_PRICES", err.Error())
		return
	}

	simulator, err := sim.New(fleet, s.limits, s.resolution, sim.WithLogger(s.log))
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}
	res, err := simulator.Run(c.Request.Context(), prices)
	if err != nil {
		abortError(c, http.StatusBadRequest, "RUN_FAILED", err.Error())
		return
	}

	rep := analysis.Compute(fleet, res)
	s.mu.Lock()
	s.latest = res
	s.report = rep
	s.mu.Unlock()

	c.JSON(http.StatusOK, simulateResponse{RunID: res.RunID, Report: rep, Result: res})
}

// fleetWith clones the configured assets and applies the request's threshold
// overrides. The configured fleet itself is never mutated.
func (s *Server) fleetWith(req simulateRequest) (*model.Fleet, error) {
	assets := make([]model.BatteryAsset, len(s.fleet.Assets))
	copy(assets, s.fleet.Assets)
	for i := range assets {
		if req.ChargeThreshold != nil {
			assets[i].ChargeThreshold = *req.ChargeThreshold
		}
		if req.DischargeThreshold != nil {
			assets[i].DischargeThreshold = *req.DischargeThreshold
		}
	}
	return model.NewFleet(assets)
}

// pricesFor builds the price series: explicit prices are laid out from the
// configured start at the market resolution, otherwise the generator runs
// with the requested horizon and seed.
func (s *Server) pricesFor(req simulateRequest) (model.PriceSeries, error) {
	if len(req.PricesMWh) > 0 {
		series := make(model.PriceSeries, len(req.PricesMWh))
		for i, p := range req.PricesMWh {
			series[i] = model.PricePoint{
				Timestamp: s.genParams.Start.Add(time.Duration(i) * s.resolution),
				PriceMWh:  p,
			}
		}
		return series, nil
	}

	params := s.genParams
	if req.Days > 0 {
		params.Days = req.Days
	}
	if req.Seed != 0 {
		params.Seed = req.Seed
	}
	gen, err := market.NewGenerator(params)
	if err != nil {
		return nil, err
	}
	return gen.Generate(), nil
}

func abortError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": msg}})
}
