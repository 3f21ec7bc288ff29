package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/shared"
	"aic-hub-backend/pkg/logger"
)

// Scheduler registers the periodic jobs with asynq's cron scheduler.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
			&asynq.SchedulerOpts{
				Location: time.UTC,
				LogLevel: asynq.InfoLevel,
			},
		),
	}
}

type cronJob struct {
	spec     string
	taskType string
	payload  []byte
	queue    string
	timeout  time.Duration
}

var cronJobs = []cronJob{
	// Trending tag scores decay hourly.
	{"0 * * * *", shared.TypeRecalculateTrendingTags, nil, shared.QueueDefault, 5 * time.Minute},
	// Periodic tag counters reset Monday midnight / first of month.
	{"0 0 * * 1", shared.TypeResetWeeklyTagCounts, []byte(`{"period":"week"}`), shared.QueueLow, 5 * time.Minute},
	{"0 0 1 * *", shared.TypeResetMonthlyTagCounts, []byte(`{"period":"month"}`), shared.QueueLow, 5 * time.Minute},
	// Retention cleanups run in the quiet hours.
	{"0 3 * * *", shared.TypeCleanupAuthAttempts, nil, shared.QueueLow, 10 * time.Minute},
	{"0 4 * * *", shared.TypeCleanupOldActivities, nil, shared.QueueLow, 10 * time.Minute},
}

func (s *Scheduler) RegisterJobs() error {
	for _, j := range cronJobs {
		_, err := s.scheduler.Register(
			j.spec,
			asynq.NewTask(j.taskType, j.payload),
			asynq.Queue(j.queue),
			asynq.MaxRetry(2),
			asynq.Timeout(j.timeout),
		)
		if err != nil {
			logger.Error("failed to register scheduled job", err)
			return err
		}
		logger.Info("registered scheduled job", map[string]interface{}{
			"task": j.taskType,
			"cron": j.spec,
		})
	}
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
