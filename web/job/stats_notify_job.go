package job

import (
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/common"
	"github.com/quillpress/blog-api/web/service"
)

// StatsNotifyJob logs a periodic summary of traffic and cache usage.
type StatsNotifyJob struct {
	serverService *service.ServerService
}

func NewStatsNotifyJob(serverService *service.ServerService) *StatsNotifyJob {
	return &StatsNotifyJob{serverService: serverService}
}

func (j *StatsNotifyJob) Run() {
	defer common.Recover("stats notify job")

	status := j.serverService.GetStatus()
	logger.Infof("stats: requests=%d failures=%d cache items=%d hits=%d misses=%d goroutines=%d database=%s",
		status.Requests, status.Failures,
		status.Cache.Items, status.Cache.Hits, status.Cache.Misses,
		status.Goroutines, status.Database)
}
