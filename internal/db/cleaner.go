package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartBlankRecordCleaner prunes fully blank credential rows on an interval.
// The read path already filters them; this keeps external writers from
// accumulating garbage in the table.
func StartBlankRecordCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, `
                    DELETE FROM credentials
                     WHERE username = ''
                       AND secret = ''
                `)
				if err != nil {
					log.Error("failed to clean blank credentials", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned blank credentials", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
