package job

import (
	"io"
	"os"

	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/common"
)

// ClearLogsJob moves the current log file into a single ".prev" generation
// and truncates it.
type ClearLogsJob struct {
	path string
}

func NewClearLogsJob() *ClearLogsJob {
	return &ClearLogsJob{path: logger.GetLogPath()}
}

func (j *ClearLogsJob) Run() {
	defer common.Recover("clear logs job")

	prevPath := j.path + ".prev"

	src, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return
	} else if err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	defer src.Close()

	prev, err := os.OpenFile(prevPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640)
	if err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	defer prev.Close()

	if _, err := io.Copy(prev, src); err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	if err := os.Truncate(j.path, 0); err != nil {
		logger.Warning("clear logs job err:", err)
	}
}
