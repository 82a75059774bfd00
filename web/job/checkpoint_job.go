package job

import (
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/common"
)

// CheckpointJob folds the SQLite write-ahead log back into the database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	if !database.IsSQLite() {
		return
	}
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
		return
	}
	logger.Debug("WAL checkpoint completed")
}
