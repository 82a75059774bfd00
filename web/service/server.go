package service

import (
	"runtime"
	"time"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/config"
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/atomic"
)

// Health is the public liveness report.
type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Uptime   uint64 `json:"uptime"`
}

// Status is the administrator view of the process and its host.
type Status struct {
	Health
	Requests   uint64        `json:"requests"`
	Failures   uint64        `json:"failures"`
	Cache      caching.Stats `json:"cache"`
	Goroutines int           `json:"goroutines"`
	Cpu        float64       `json:"cpu"`
	CpuCores   int           `json:"cpuCores"`
	Mem        struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Loads      []float64 `json:"loads"`
	HostUptime uint64    `json:"hostUptime"`
}

type ServerService struct {
	cache     *caching.Cache
	startedAt time.Time

	requests atomic.Uint64
	failures atomic.Uint64
}

func NewServerService(cache *caching.Cache) *ServerService {
	return &ServerService{cache: cache, startedAt: time.Now()}
}

// RecordRequest counts a finished request; 5xx answers count as failures.
func (s *ServerService) RecordRequest(status int) {
	s.requests.Inc()
	if status >= 500 {
		s.failures.Inc()
	}
}

func (s *ServerService) GetHealth() *Health {
	h := &Health{
		Status:   "ok",
		Version:  config.GetVersion(),
		Database: "ok",
		Uptime:   uint64(time.Since(s.startedAt).Seconds()),
	}
	if err := pingDB(); err != nil {
		logger.Warning("database ping failed:", err)
		h.Status = "degraded"
		h.Database = err.Error()
	}
	return h
}

func pingDB() error {
	sqlDB, err := database.GetDB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *ServerService) GetStatus() *Status {
	status := &Status{
		Health:     *s.GetHealth(),
		Requests:   s.requests.Load(),
		Failures:   s.failures.Load(),
		Goroutines: runtime.NumGoroutine(),
	}
	if s.cache != nil {
		status.Cache = s.cache.Stats()
	}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}
	var err error
	if status.CpuCores, err = cpu.Counts(false); err != nil {
		logger.Warning("get cpu cores count failed:", err)
	}
	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}
	if avg, err := load.Avg(); err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		status.Loads = []float64{avg.Load1, avg.Load5, avg.Load15}
	}
	if upTime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.HostUptime = upTime
	}
	return status
}
