package camunda

import (
	"os"
	"time"

	"mentor-pricing-workers/internal/common/config"
	"mentor-pricing-workers/internal/common/logger"
	"mentor-pricing-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/google/uuid"
)

// JobHandler is implemented by every task handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// StartWorker opens a job worker for taskType using the per-task settings.
func StartWorker(client zbc.Client, taskType string, cfg config.WorkerConfig, handler JobHandler, log logger.Logger) worker.JobWorker {
	name := WorkerName(taskType)
	log = log.WithFields(map[string]interface{}{"taskType": taskType, "worker": name})

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler)).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Name(name).
		Open()

	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})
	return jobWorker
}

// WorkerName identifies this replica to the broker: <taskType>-<host>-<suffix>.
func WorkerName(taskType string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return taskType + "-" + host + "-" + uuid.NewString()[:8]
}

func instrument(taskType string, handler JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler.Handle(client, job)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	}
}
