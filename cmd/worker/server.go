package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/infrastructure/queue"
	"aic-hub-backend/internal/shared"
	"aic-hub-backend/pkg/container"
)

func startAsynqServer(c *container.Container) *asynq.Server {
	mux := asynq.NewServeMux()
	mux.HandleFunc(shared.TypeRecalculateTrendingTags, c.TagTrendingJob.ProcessRecalculate)
	mux.HandleFunc(shared.TypeResetWeeklyTagCounts, c.TagTrendingJob.ProcessResetCounts)
	mux.HandleFunc(shared.TypeResetMonthlyTagCounts, c.TagTrendingJob.ProcessResetCounts)
	mux.HandleFunc(shared.TypeCleanupAuthAttempts, c.AuthCleanupJob.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupOldActivities, c.ActivityCleanupJob.ProcessTask)
	mux.HandleFunc(shared.TypeReindexSearch, c.SearchReindexJob.ProcessTask)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueHigh:    20,
				shared.QueueDefault: 10,
				shared.QueueLow:     5,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task failed: type=%s err=%v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("worker starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return srv
}

func startScheduler(c *container.Container) *queue.Scheduler {
	scheduler := queue.NewScheduler(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("failed to register scheduled jobs: %v", err)
	}

	go func() {
		log.Println("scheduler starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return scheduler
}
