package main

import (
	"context"
	"log"
	"time"

	"alphaDash/internal/services"
)

const (
	sessionCleanerInterval = 5 * time.Minute
	sessionCleanerTimeout  = 30 * time.Second
)

func startSessionCleaner(ctx context.Context, svc *services.SessionSweeper, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(sessionCleanerInterval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, sessionCleanerTimeout)
			defer cancel()

			res, err := svc.Sweep(runCtx, time.Now())
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("session cleaner: failed to delete expired sessions: %v", err)
				}
			}
			if res.Total() > 0 && infoLog != nil {
				infoLog.Printf("session cleaner: dropped %d stored values, %d carts, %d boards", res.StoredValues, res.Carts, res.Boards)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
