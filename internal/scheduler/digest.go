package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finances-service/internal/metrics"
	"github.com/Dan9191/finances-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// OwnerLister lists digest recipients
type OwnerLister interface {
	ListOwnersWithProperties(ctx context.Context) ([]models.Owner, error)
}

// DigestBuilder computes the digest of one owner
type DigestBuilder interface {
	BuildOwnerDigest(ctx context.Context, owner models.Owner) (*models.OwnerDigest, error)
}

// Mailer delivers a digest
type Mailer interface {
	SendFinanceDigest(digest *models.OwnerDigest) error
}

// DigestReport summarizes one digest run
type DigestReport struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// DigestJob e-mails every owner the finance alerts of the day
type DigestJob struct {
	owners  OwnerLister
	builder DigestBuilder
	mailer  Mailer
	log     *logrus.Logger
	timeout time.Duration
}

// NewDigestJob initializes a new digest job
func NewDigestJob(owners OwnerLister, builder DigestBuilder, mailer Mailer, log *logrus.Logger) *DigestJob {
	return &DigestJob{
		owners:  owners,
		builder: builder,
		mailer:  mailer,
		log:     log,
		timeout: 10 * time.Minute,
	}
}

// Run builds and sends the digest of every owner. Failures for one owner
// do not stop the run.
func (j *DigestJob) Run(ctx context.Context) (DigestReport, error) {
	var report DigestReport

	owners, err := j.owners.ListOwnersWithProperties(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list digest recipients: %w", err)
	}

	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		log := j.log.WithField("owner_id", owner.ID)

		digest, err := j.builder.BuildOwnerDigest(ctx, owner)
		if err != nil {
			log.WithError(err).Warn("Skipping digest, overview unavailable")
			report.Failed++
			metrics.DigestEmails.WithLabelValues("failed").Inc()
			continue
		}
		if !digest.HasAlerts() {
			report.Skipped++
			metrics.DigestEmails.WithLabelValues("skipped").Inc()
			continue
		}
		if err := j.mailer.SendFinanceDigest(digest); err != nil {
			log.WithError(err).Error("Failed to send digest")
			report.Failed++
			metrics.DigestEmails.WithLabelValues("failed").Inc()
			continue
		}
		report.Sent++
		metrics.DigestEmails.WithLabelValues("sent").Inc()
	}

	j.log.WithFields(logrus.Fields{
		"sent":    report.Sent,
		"failed":  report.Failed,
		"skipped": report.Skipped,
	}).Info("Finance digest run finished")
	return report, nil
}

// Schedule registers the job on a new cron scheduler. The caller starts and stops it.
func (j *DigestJob) Schedule(spec string, loc *time.Location) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cron.PrintfLogger(j.log)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(j.log))),
	)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if _, err := j.Run(ctx); err != nil {
			j.log.WithError(err).Error("Finance digest run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule digest job: %w", err)
	}
	return c, nil
}
